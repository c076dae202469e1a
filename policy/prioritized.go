package policy

// Role indices the prioritized policy reasons about directly, named the
// way the travel-agency roles they represent are named in the
// topology's transition list.
const (
	seniorAgent     = 2
	juniorAgent     = 3
	bookingConfirm  = 6
	bookingCancel   = 7
	seniorThreshold = 0.75
	bookingThresh   = 0.80
)

// noPriorityOrder lists the transitions this policy has no opinion
// about, in the scan order used when neither priority tier applies.
var noPriorityOrder = [...]int{0, 1, 4, 5, 8, 9, 10, 11}

// Prioritized balances two pairs of competing transitions against fixed
// ratio thresholds — senior vs. junior agent handling, and booking
// confirmation vs. cancellation — falling back to a fixed scan order
// for every other transition.
type Prioritized struct{}

// Pick implements the three-tier decision exactly as the policy it is
// grounded on: first the agent-seniority ratio, then the
// booking-outcome ratio, then a fixed scan order; if nothing is
// enabled it returns 0, matching the fallback of the policy it mirrors.
func (Prioritized) Pick(c Candidates) int {
	totalAgents := c.Fires[seniorAgent] + c.Fires[juniorAgent]
	if totalAgents == 0 {
		totalAgents = 1
	}
	totalBookings := c.Fires[bookingConfirm] + c.Fires[bookingCancel]
	if totalBookings == 0 {
		totalBookings = 1
	}

	seniorRatio := float64(c.Fires[seniorAgent]) / float64(totalAgents)
	confirmRatio := float64(c.Fires[bookingConfirm]) / float64(totalBookings)

	if c.Enabled[seniorAgent] || c.Enabled[juniorAgent] {
		if seniorRatio <= seniorThreshold && c.Enabled[seniorAgent] {
			return seniorAgent
		}
		if seniorRatio > seniorThreshold && c.Enabled[juniorAgent] {
			return juniorAgent
		}
	}

	if c.Enabled[bookingConfirm] || c.Enabled[bookingCancel] {
		if confirmRatio <= bookingThresh && c.Enabled[bookingConfirm] {
			return bookingConfirm
		}
		if confirmRatio > bookingThresh && c.Enabled[bookingCancel] {
			return bookingCancel
		}
	}

	for _, t := range noPriorityOrder {
		if c.Enabled[t] {
			return t
		}
	}

	return 0
}
