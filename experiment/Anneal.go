package experiment

import (
	"fmt"

	"github.com/samuelfneumann/mazerl/utils/floatutils"
)

// AnnealProbability linearly increases a probability from startProb at
// iteration startItr to 1 at iteration maxItr. The result is clipped to
// [0, 1] so that it may be used outside [startItr, maxItr].
//
// AnnealProbability panics if maxItr == startItr.
func AnnealProbability(itr, maxItr, startItr int, startProb float64) float64 {
	if maxItr == startItr {
		panic(fmt.Sprintf("annealProbability: annealing must span at "+
			"least one iteration, have start = end = %v", startItr))
	}

	slope := (1 - startProb) / float64(maxItr-startItr)
	prob := slope*float64(itr-startItr) + startProb

	return floatutils.Clip(prob, 0, 1)
}
