// Package actions reports run outcomes back to a GitHub Actions job.
package actions

import (
	"os"
	"strconv"

	"github.com/sethvargo/go-githubactions"
)

// Output names set on success.
const (
	OutputIndexed = "indexed"
	OutputSkipped = "skipped"
	OutputDeleted = "deleted"
)

// Reporter writes workflow commands. It is silent outside of Actions so local
// runs are not cluttered with annotations.
type Reporter struct {
	action  *githubactions.Action
	enabled bool
}

func New(enabled bool, opts ...githubactions.Option) *Reporter {
	return &Reporter{action: githubactions.New(opts...), enabled: enabled}
}

// FromEnv enables reporting when GITHUB_ACTIONS is "true".
func FromEnv() *Reporter {
	return New(os.Getenv("GITHUB_ACTIONS") == "true")
}

// Fail annotates the job with the error message. The caller still decides
// the exit status.
func (r *Reporter) Fail(err error) {
	if !r.enabled || err == nil {
		return
	}
	r.action.Errorf("%s", err.Error())
}

func (r *Reporter) Counts(indexed, skipped, deleted int) {
	if !r.enabled {
		return
	}
	r.action.SetOutput(OutputIndexed, strconv.Itoa(indexed))
	r.action.SetOutput(OutputSkipped, strconv.Itoa(skipped))
	r.action.SetOutput(OutputDeleted, strconv.Itoa(deleted))
}
