package selfcheck

import (
	"context"
	"testing"

	"github.com/abdul-hamid-achik/checkrun/packages/assertions"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/core/runner"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_AllPass(t *testing.T) {
	reg := registry.New()
	Register(reg)

	rep, err := runner.NewRunner(reg, nil).Run(context.Background())
	require.NoError(t, err)

	for _, s := range rep.Suites {
		for _, test := range s.Tests {
			assert.True(t, test.Pass, "%s > %s: %+v", s.Name, test.Name, test.Checks)
		}
	}
	assert.True(t, rep.Pass)
	assert.Equal(t, 4, rep.Total)

	kinds := map[assertions.Kind]bool{}
	for _, s := range rep.Suites {
		for _, test := range s.Tests {
			for _, c := range test.Checks {
				kinds[c.Kind] = true
			}
		}
	}
	assert.Len(t, kinds, 6, "every check kind is exercised")
}

func TestRegisterFailing(t *testing.T) {
	reg := registry.New()
	RegisterFailing(reg)

	rep, err := runner.NewRunner(reg, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Suites, 1)

	tests := rep.Suites[0].Tests
	require.Len(t, tests, 4)

	assert.Equal(t, report.Counts{Success: 2, Failure: 1, Total: 3}, tests[0].Counts)

	assert.Equal(t, "setup failed; connection refused", tests[1].Error)
	assert.Empty(t, tests[1].Checks)

	assert.Equal(t, "unexpected state 42", tests[2].Error)

	require.Len(t, tests[3].Checks, 1)
	assert.False(t, tests[3].Checks[0].Pass)

	assert.False(t, rep.Pass)
	assert.Equal(t, report.Counts{Success: 0, Failure: 1, Total: 1}, rep.Counts)
	assert.Equal(t, report.Counts{Success: 0, Failure: 4, Total: 4}, rep.Suites[0].Counts)
}
