package workflow

import "time"

// Presets returns the built-in workflows for common development
// tasks.
func Presets() []*Workflow {
	return []*Workflow{GoBuildAndTest(), GitCommitPush()}
}

func GoBuildAndTest() *Workflow {
	return &Workflow{
		Name:        "go-build-test",
		Description: "Vet, build, and test a Go project",
		Steps: []Step{
			{
				Name:              "vet",
				Command:           "go vet ./...",
				Description:       "Static analysis",
				ContinueOnFailure: true,
				Timeout:           Duration(time.Minute),
			},
			{
				Name:        "build",
				Command:     "go build ./...",
				Description: "Build all packages",
				Timeout:     Duration(5 * time.Minute),
				Retries:     1,
			},
			{
				Name:        "test",
				Command:     "go test ./...",
				Description: "Run the test suite",
				Timeout:     Duration(10 * time.Minute),
				Retries:     1,
				Conditions: []Condition{
					{Type: StepSucceeded, Value: "build"},
				},
			},
		},
		OnFailure: FailStop,
	}
}

func GitCommitPush() *Workflow {
	return &Workflow{
		Name:        "git-commit-push",
		Description: "Stage, commit, and push changes",
		Variables: map[string]string{
			"COMMIT_MESSAGE": "Update",
		},
		Steps: []Step{
			{
				Name:    "status",
				Command: "git status --porcelain",
				Timeout: Duration(30 * time.Second),
			},
			{
				Name:    "add",
				Command: "git add .",
				Timeout: Duration(time.Minute),
			},
			{
				Name:    "commit",
				Command: `git commit -m "${COMMIT_MESSAGE}"`,
				Timeout: Duration(time.Minute),
			},
			{
				Name:    "push",
				Command: "git push",
				Timeout: Duration(2 * time.Minute),
				Retries: 2,
			},
		},
		OnFailure: FailStop,
	}
}
