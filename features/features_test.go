package features

import (
	"testing"

	"github.com/OpenRailAssociation/popupsim/features/steps"
	"github.com/cucumber/godog"
)

// TestFeatures runs every .feature file in this directory against the
// pipeline and strategy step definitions (spec.md §8 "Concrete end-to-end
// scenarios"). Grounded on the teacher pack's acdtunes-spacetraders
// test/bdd/bdd_test.go TestFeatures harness.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"."},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializePipelineScenario(sc)
	steps.InitializeStrategyScenario(sc)
}
