package exitcheck_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/ilya-burinskiy/clipgate/pkg/exitcheck"
)

func TestExitcheck(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), exitcheck.Analyzer, "a", "b")
}
