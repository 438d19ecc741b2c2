//go:build cucumber

package cucumber

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"

	"uclevr/internal/testutil"
)

// featureState holds scenario state for cucumber CLI tests.
type featureState struct {
	t          testing.TB
	dataset    testutil.Dataset
	previousWD string
	stdout     bytes.Buffer
	stderr     bytes.Buffer
	exitCode   int
}

// InitializeScenario wires cucumber steps to the feature state.
func InitializeScenario(ctx *godog.ScenarioContext, t testing.TB) {
	state := &featureState{t: t}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a synthetic Unique CLEVR dataset$`, state.aSyntheticDataset)
	ctx.Step(`^a synthetic Unique CLEVR dataset with "([^"]+)"$`, state.aSyntheticDatasetWith)
	ctx.Step(`^the config sets "([^"]+)"$`, state.theConfigSets)
	ctx.Step(`^the predictions file is missing$`, state.thePredictionsFileIsMissing)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the output lists these commands:$`, state.theOutputListsCommands)
	ctx.Step(`^the exit code is zero$`, state.theExitCodeIsZero)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the output contains "([^"]+)"$`, state.theOutputContains)
	ctx.Step(`^the error output contains "([^"]+)"$`, state.theErrorOutputContains)
	ctx.Step(`^the error output names the ground truth path$`, state.theErrorOutputNamesGroundTruth)
	ctx.Step(`^the file "([^"]+)" exists$`, state.theFileExists)
	ctx.Step(`^the file "([^"]+)" does not exist$`, state.theFileDoesNotExist)
}

// reset clears buffers and resets state before each scenario.
func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.dataset = testutil.Dataset{}
}

// cleanup restores the working directory and removes the dataset.
func (s *featureState) cleanup() {
	if s.previousWD != "" {
		_ = os.Chdir(s.previousWD)
		s.previousWD = ""
	}
	if s.dataset.Root != "" {
		_ = os.RemoveAll(s.dataset.Root)
	}
}
