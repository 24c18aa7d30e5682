package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"faultline.dev/pkg/faultline/internal/domain"
	m "faultline.dev/pkg/faultline/internal/model"
)

func TestViewCmd_UsesRootOutputFlagByDefault(t *testing.T) {
	cmd, mockWorkflow, _ := newTestCmd(t, newViewCmd())

	mockWorkflow.On("View", mock.Anything, mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.OutputDir == m.Path(defaultReportsDir)
	})).Return(nil)

	cmd.SetArgs(withArgs(t, "view"))
	require.NoError(t, cmd.Execute())
}

func TestViewCmd_RootOutputFlagIsPassedThrough(t *testing.T) {
	cmd, mockWorkflow, _ := newTestCmd(t, newViewCmd())

	mockWorkflow.On("View", mock.Anything, mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.OutputDir == m.Path("./reports-dir")
	})).Return(nil)

	cmd.SetArgs(withArgs(t, "view", "--output", "./reports-dir"))
	require.NoError(t, cmd.Execute())
}

func TestViewCmd_PositionalArgsAreRejected(t *testing.T) {
	cmd, _, _ := newTestCmd(t, newViewCmd())

	cmd.SetArgs(withArgs(t, "view", "./custom-reports"))
	require.Error(t, cmd.Execute())
}
