package fine

import (
	"fmt"
	"strings"
	"time"
)

// Fine is a penalty owed by one player to the club.
type Fine struct {
	ID        string
	PlayerID  string
	TeamID    string
	Reason    string
	Amount    float64
	Date      time.Time
	Paid      bool
	CreatedBy string
}

func (f Fine) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("fine id is required")
	}
	if strings.TrimSpace(f.PlayerID) == "" {
		return fmt.Errorf("fine must belong to a player")
	}
	if f.Amount <= 0 {
		return fmt.Errorf("fine amount must be greater than zero")
	}
	if strings.TrimSpace(f.Reason) == "" {
		return fmt.Errorf("fine reason is required")
	}
	return nil
}

// Stats summarises a fines snapshot.
type Stats struct {
	Count        int
	PendingCount int
	PendingTotal float64
	PaidTotal    float64
}

// ComputeStats derives Stats from the current snapshot. It is never stored.
func ComputeStats(fines []Fine) Stats {
	var s Stats
	for _, f := range fines {
		s.Count++
		if f.Paid {
			s.PaidTotal += f.Amount
			continue
		}
		s.PendingCount++
		s.PendingTotal += f.Amount
	}
	return s
}
