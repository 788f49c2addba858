package cmd

import (
	"path/filepath"
	"testing"
)

func TestRunCmd_ScenarioFlag_IsRequired(t *testing.T) {
	// GIVEN the run command with its registered flags
	flag := runCmd.Flags().Lookup("scenario")

	// THEN the scenario flag must exist with an empty default — it is
	// required, not defaulted
	if flag == nil {
		t.Fatal("scenario flag must be registered")
	}
	if flag.DefValue != "" {
		t.Errorf("scenario default = %q, want empty", flag.DefValue)
	}
}

func TestRunCmd_HorizonFlag_DefaultsToOneDay(t *testing.T) {
	flag := runCmd.Flags().Lookup("horizon")
	if flag == nil {
		t.Fatal("horizon flag must be registered")
	}
	if flag.DefValue != "1440" {
		t.Errorf("horizon default = %q, want 1440", flag.DefValue)
	}
}

func TestRunScenario_MissingScenarioFile_ReturnsError(t *testing.T) {
	// GIVEN flag state pointing at a scenario file that doesn't exist
	oldPath, oldHorizon, oldLevel := scenarioPath, horizon, logLevel
	defer func() { scenarioPath, horizon, logLevel = oldPath, oldHorizon, oldLevel }()

	scenarioPath = filepath.Join(t.TempDir(), "missing.yaml")
	horizon = 100
	logLevel = "error"

	// WHEN runScenario is invoked directly
	err := runScenario(runCmd, nil)

	// THEN it surfaces LoadScenario's error rather than panicking
	if err == nil {
		t.Fatal("expected an error for a missing scenario file")
	}
}

func TestRunScenario_InvalidLogLevel_ReturnsError(t *testing.T) {
	oldPath, oldHorizon, oldLevel := scenarioPath, horizon, logLevel
	defer func() { scenarioPath, horizon, logLevel = oldPath, oldHorizon, oldLevel }()

	scenarioPath = filepath.Join(t.TempDir(), "missing.yaml")
	horizon = 100
	logLevel = "not-a-level"

	err := runScenario(runCmd, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid log level")
	}
}
