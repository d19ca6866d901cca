package leave_test

import (
	"testing"

	"markpedia-os/internal/leave"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{name: "identical", s1: "2024-03-04", e1: "2024-03-08", s2: "2024-03-04", e2: "2024-03-08", want: true},
		{name: "touching end day", s1: "2024-03-04", e1: "2024-03-08", s2: "2024-03-08", e2: "2024-03-12", want: true},
		{name: "contained", s1: "2024-03-01", e1: "2024-03-31", s2: "2024-03-10", e2: "2024-03-11", want: true},
		{name: "adjacent days", s1: "2024-03-04", e1: "2024-03-08", s2: "2024-03-09", e2: "2024-03-12", want: false},
		{name: "far apart", s1: "2024-03-04", e1: "2024-03-08", s2: "2024-05-01", e2: "2024-05-02", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s1, e1 := date(t, tt.s1), date(t, tt.e1)
			s2, e2 := date(t, tt.s2), date(t, tt.e2)
			assert.Equal(t, tt.want, leave.RangesOverlap(s1, e1, s2, e2))
			assert.Equal(t, tt.want, leave.RangesOverlap(s2, e2, s1, e1), "overlap must be symmetric")
		})
	}
}

func TestFindOverlaps(t *testing.T) {
	employeeID := uuid.New()
	otherEmployee := uuid.New()

	newRequest := func(employee uuid.UUID, status, start, end string) leave.LeaveRequest {
		return leave.LeaveRequest{
			ID:         uuid.New(),
			EmployeeID: employee,
			Status:     status,
			StartDate:  date(t, start),
			EndDate:    date(t, end),
		}
	}

	pending := newRequest(employeeID, leave.StatusPending, "2024-03-04", "2024-03-08")
	approved := newRequest(employeeID, leave.StatusHRApproved, "2024-03-07", "2024-03-12")
	rejected := newRequest(employeeID, leave.StatusRejected, "2024-03-05", "2024-03-06")
	cancelled := newRequest(employeeID, leave.StatusCancelled, "2024-03-05", "2024-03-06")
	someoneElse := newRequest(otherEmployee, leave.StatusPending, "2024-03-05", "2024-03-06")
	later := newRequest(employeeID, leave.StatusPending, "2024-04-01", "2024-04-02")

	candidates := []leave.LeaveRequest{pending, approved, rejected, cancelled, someoneElse, later}

	t.Run("only active requests of the employee", func(t *testing.T) {
		got := leave.FindOverlaps(candidates, employeeID, date(t, "2024-03-06"), date(t, "2024-03-07"), nil)

		require.Len(t, got, 2)
		assert.Equal(t, pending.ID, got[0].ID)
		assert.Equal(t, approved.ID, got[1].ID)
	})

	t.Run("exclude self", func(t *testing.T) {
		got := leave.FindOverlaps(candidates, employeeID, date(t, "2024-03-04"), date(t, "2024-03-08"), &pending.ID)

		require.Len(t, got, 1)
		assert.Equal(t, approved.ID, got[0].ID)
	})

	t.Run("no overlap returns empty slice", func(t *testing.T) {
		got := leave.FindOverlaps(candidates, employeeID, date(t, "2024-06-03"), date(t, "2024-06-04"), nil)

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
