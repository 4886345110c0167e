package fine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]Fine{
		{ID: "f1", Amount: 5, Paid: true},
		{ID: "f2", Amount: 10},
		{ID: "f3", Amount: 2.5},
	})

	assert.Equal(t, Stats{Count: 3, PendingCount: 2, PendingTotal: 12.5, PaidTotal: 5}, stats)
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestFineValidate(t *testing.T) {
	f := Fine{ID: "f1", PlayerID: "p1", Reason: "late", Amount: 3}
	assert.NoError(t, f.Validate())

	orphan := f
	orphan.PlayerID = ""
	assert.Error(t, orphan.Validate())

	free := f
	free.Amount = 0
	assert.Error(t, free.Validate())
}
