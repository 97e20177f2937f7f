// Finance operations: daily fee settlement and cash collection.
// Net worth itself lives on State; see state.go.

package sim

import "github.com/shopspring/decimal"

// settleDailyFee charges one day's fee at rollover. If cash at hand covers
// the fee (plus any fees already outstanding) everything is paid and the
// unpaid-day counter resets; otherwise the fee accrues to OutstandingFees
// and the counter increments. Called exactly once per completed day.
func (st *State) settleDailyFee(fee decimal.Decimal) bool {
	due := st.OutstandingFees.Add(fee)
	if st.CashAtHand.GreaterThanOrEqual(due) {
		st.CashAtHand = st.CashAtHand.Sub(due)
		st.OutstandingFees = decimal.Zero
		st.ConsecutiveUnpaidFeeDays = 0
		return true
	}
	st.OutstandingFees = due
	st.ConsecutiveUnpaidFeeDays++
	return false
}

// collectCash empties the machine's cash box into cash at hand, then pays
// off outstanding fees if the new balance covers them. Settling the
// backlog here resets the unpaid-day counter; the counter itself is only
// ever incremented at rollover. Returns the amount collected and the
// amount of fee backlog paid.
func (st *State) collectCash() (collected, feesPaid decimal.Decimal) {
	collected = st.CashInMachine
	st.CashAtHand = st.CashAtHand.Add(collected)
	st.CashInMachine = decimal.Zero

	feesPaid = decimal.Zero
	if st.OutstandingFees.IsPositive() && st.CashAtHand.GreaterThanOrEqual(st.OutstandingFees) {
		feesPaid = st.OutstandingFees
		st.CashAtHand = st.CashAtHand.Sub(feesPaid)
		st.OutstandingFees = decimal.Zero
		st.ConsecutiveUnpaidFeeDays = 0
	}
	return collected, feesPaid
}
