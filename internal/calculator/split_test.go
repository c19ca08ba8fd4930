package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func participants(ids ...string) []ShareRequest {
	reqs := make([]ShareRequest, len(ids))
	for i, id := range ids {
		reqs[i] = ShareRequest{UserID: id}
	}
	return reqs
}

var tolerance = dec("0.05")

func TestAllocateSplit_Equal(t *testing.T) {
	tests := []struct {
		name   string
		total  string
		people []string
		want   []string
	}{
		{"even three-way", "90", []string{"a", "b", "c"}, []string{"30", "30", "30"}},
		{"uneven three-way", "100", []string{"a", "b", "c"}, []string{"33.33", "33.33", "33.34"}},
		{"single participant", "12.34", []string{"a"}, []string{"12.34"}},
		{"float floor trap", "0.29", []string{"a", "b"}, []string{"0.14", "0.15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := AllocateSplit(dec(tt.total), models.SplitEqual, participants(tt.people...), tolerance)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.want))

			for i, s := range shares {
				assert.Equal(t, tt.people[i], s.UserID)
				assertMoney(t, tt.want[i], s.AmountOwed)
				assert.Equal(t, models.ParticipantPending, s.Status)
			}
		})
	}
}

func TestAllocateSplit_ZeroSharesStartPaid(t *testing.T) {
	shares, err := AllocateSplit(dec("0.01"), models.SplitEqual, participants("a", "b", "c"), tolerance)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assertMoney(t, "0", shares[0].AmountOwed)
	assertMoney(t, "0", shares[1].AmountOwed)
	assertMoney(t, "0.01", shares[2].AmountOwed)
	assert.Equal(t, models.ParticipantPaid, shares[0].Status)
	assert.Equal(t, models.ParticipantPaid, shares[1].Status)
	assert.Equal(t, models.ParticipantPending, shares[2].Status)

	parts := make([]models.SplitParticipant, len(shares))
	for i, s := range shares {
		parts[i] = models.SplitParticipant{UserID: s.UserID, AmountOwed: s.AmountOwed, Status: s.Status}
	}
	assert.Equal(t, models.SplitPending, SplitStatusFor(models.SplitPending, parts))

	parts[2], err = ApplyPayment(parts[2], dec("0.01"), 1)
	require.NoError(t, err)
	assert.Equal(t, models.SplitSettled, SplitStatusFor(models.SplitPending, parts))
}

func TestAllocateEqual_SumsToTotal(t *testing.T) {
	totals := []string{"0.01", "0.07", "0.29", "1", "10", "33.33", "99.99", "100", "1234.56", "999999.99", "1000000"}

	for _, s := range totals {
		total := dec(s)
		for n := 1; n <= 50; n++ {
			amounts := AllocateEqual(total, n)
			require.Len(t, amounts, n)

			sum := decimal.Zero
			for _, a := range amounts {
				assert.True(t, a.Equal(RoundCents(a)), "share %s has sub-cent digits", a)
				assert.False(t, a.IsNegative())
				sum = sum.Add(a)
			}
			require.True(t, total.Equal(sum), "total %s across %d sums to %s", s, n, sum)
		}
	}
}

func TestAllocateSplit_CustomTolerance(t *testing.T) {
	tests := []struct {
		name    string
		amounts []string
		wantErr bool
	}{
		{"exact", []string{"60", "40"}, false},
		{"within tolerance", []string{"60", "40.04"}, false},
		{"at tolerance", []string{"60", "40.05"}, false},
		{"beyond tolerance over", []string{"60", "40.06"}, true},
		{"beyond tolerance under", []string{"60", "39.9"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := []ShareRequest{
				{UserID: "a", AmountOwed: dec(tt.amounts[0])},
				{UserID: "b", AmountOwed: dec(tt.amounts[1])},
			}
			shares, err := AllocateSplit(dec("100"), models.SplitCustom, reqs, tolerance)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			require.NoError(t, err)
			assertMoney(t, tt.amounts[0], shares[0].AmountOwed)
			assertMoney(t, tt.amounts[1], shares[1].AmountOwed)
		})
	}
}

func TestAllocateSplit_RejectsBeyondAnyTolerance(t *testing.T) {
	for _, tol := range []string{"0.01", "0.02", "0.05"} {
		for _, delta := range []string{"0.06", "0.1", "1", "25"} {
			reqs := []ShareRequest{{UserID: "a", AmountOwed: dec("50")}, {UserID: "b", AmountOwed: dec("50").Add(dec(delta))}}
			_, err := AllocateSplit(dec("100"), models.SplitPercentage, reqs, dec(tol))
			assert.Error(t, err, "tolerance %s, delta %s", tol, delta)
		}
	}
}

func TestAllocateSplit_Validation(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		splitType models.SplitType
		reqs      []ShareRequest
	}{
		{"zero total", "0", models.SplitEqual, participants("a")},
		{"sub-cent total", "0.004", models.SplitEqual, participants("a")},
		{"negative total", "-5", models.SplitEqual, participants("a")},
		{"unknown type", "10", models.SplitType("weighted"), participants("a")},
		{"no participants", "10", models.SplitEqual, nil},
		{"blank user", "10", models.SplitEqual, participants("a", "")},
		{"duplicate user", "10", models.SplitEqual, participants("a", "a")},
		{"negative share", "10", models.SplitCustom, []ShareRequest{{"a", dec("15")}, {"b", dec("-5")}}},
		{"nobody owes", "0.01", models.SplitCustom, []ShareRequest{{"a", dec("0")}, {"b", dec("0")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AllocateSplit(dec(tt.total), tt.splitType, tt.reqs, tolerance)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestApplyPayment(t *testing.T) {
	share := models.SplitParticipant{ID: "p1", AmountOwed: dec("30"), Status: models.ParticipantPending}

	partial, err := ApplyPayment(share, dec("10"), 100)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantPartial, partial.Status)
	assertMoney(t, "10", partial.AmountPaid)
	assert.Zero(t, partial.PaidAt)

	paid, err := ApplyPayment(partial, dec("20"), 200)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantPaid, paid.Status)
	assertMoney(t, "30", paid.AmountPaid)
	assert.Equal(t, int64(200), paid.PaidAt)

	_, err = ApplyPayment(paid, dec("1"), 300)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestApplyPayment_Overpayment(t *testing.T) {
	share := models.SplitParticipant{AmountOwed: dec("33.34"), Status: models.ParticipantPending}

	paid, err := ApplyPayment(share, dec("40"), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantPaid, paid.Status)
	assertMoney(t, "40", paid.AmountPaid)
	assert.True(t, Outstanding(paid).IsZero())
}

func TestApplyPayment_CentAccumulation(t *testing.T) {
	share := models.SplitParticipant{AmountOwed: dec("0.3"), Status: models.ParticipantPending}

	var err error
	for i := 0; i < 3; i++ {
		share, err = ApplyPayment(share, dec("0.1"), int64(i))
		require.NoError(t, err)
	}
	assert.Equal(t, models.ParticipantPaid, share.Status)
	assertMoney(t, "0.3", share.AmountPaid)
}

func TestApplyPayment_RejectsBelowOneCent(t *testing.T) {
	share := models.SplitParticipant{AmountOwed: dec("30"), Status: models.ParticipantPending}

	for _, amount := range []string{"0", "-1", "0.004", "0.0049"} {
		got, err := ApplyPayment(share, dec(amount), 1)
		require.Error(t, err, amount)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, share, got)
		assert.Equal(t, models.ParticipantPending, got.Status)
	}
}

func TestApplyPayment_RoundsToCents(t *testing.T) {
	share := models.SplitParticipant{AmountOwed: dec("1"), Status: models.ParticipantPending}

	got, err := ApplyPayment(share, dec("0.005"), 1)
	require.NoError(t, err)
	assertMoney(t, "0.01", got.AmountPaid)
	assert.Equal(t, models.ParticipantPartial, got.Status)
}

func TestSplitStatusFor(t *testing.T) {
	p := func(status models.ParticipantStatus, owed, paid string) models.SplitParticipant {
		return models.SplitParticipant{Status: status, AmountOwed: dec(owed), AmountPaid: dec(paid)}
	}

	tests := []struct {
		name    string
		current models.SplitStatus
		shares  []models.SplitParticipant
		want    models.SplitStatus
	}{
		{"nothing paid", models.SplitPending, []models.SplitParticipant{p(models.ParticipantPending, "10", "0"), p(models.ParticipantPending, "10", "0")}, models.SplitPending},
		{"one partial", models.SplitPending, []models.SplitParticipant{p(models.ParticipantPartial, "10", "4"), p(models.ParticipantPending, "10", "0")}, models.SplitPartial},
		{"one paid", models.SplitPending, []models.SplitParticipant{p(models.ParticipantPaid, "10", "10"), p(models.ParticipantPending, "10", "0")}, models.SplitPartial},
		{"all paid", models.SplitPartial, []models.SplitParticipant{p(models.ParticipantPaid, "10", "10"), p(models.ParticipantPaid, "10", "10")}, models.SplitSettled},
		{"zero share alone is not progress", models.SplitPending, []models.SplitParticipant{p(models.ParticipantPaid, "0", "0"), p(models.ParticipantPending, "0.01", "0")}, models.SplitPending},
		{"pending share blocks settlement", models.SplitPartial, []models.SplitParticipant{p(models.ParticipantPaid, "0.01", "0.01"), p(models.ParticipantPending, "0", "0")}, models.SplitPartial},
		{"settled is terminal", models.SplitSettled, []models.SplitParticipant{p(models.ParticipantPartial, "10", "5")}, models.SplitSettled},
		{"no participants", models.SplitPending, nil, models.SplitPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatusFor(tt.current, tt.shares))
		})
	}
}

func TestSplitSettlementScenario(t *testing.T) {
	shares, err := AllocateSplit(dec("90"), models.SplitEqual, participants("ann", "ben", "cat"), tolerance)
	require.NoError(t, err)

	parts := make([]models.SplitParticipant, len(shares))
	for i, s := range shares {
		parts[i] = models.SplitParticipant{UserID: s.UserID, AmountOwed: s.AmountOwed, Status: s.Status}
		assertMoney(t, "30", s.AmountOwed)
	}
	status := models.SplitPending

	parts[0], err = ApplyPayment(parts[0], dec("30"), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantPaid, parts[0].Status)
	status = SplitStatusFor(status, parts)
	assert.Equal(t, models.SplitPartial, status)

	for i := 1; i < len(parts); i++ {
		parts[i], err = ApplyPayment(parts[i], dec("30"), 2)
		require.NoError(t, err)
	}
	status = SplitStatusFor(status, parts)
	assert.Equal(t, models.SplitSettled, status)
}
