// Package ledger holds the rule binding transaction writes to account
// balances. Every write path in storage funnels its balance change through
// these functions; nothing else computes a balance delta.
package ledger

import "ledger/internal/core"

// Effect is the signed change a transaction of amount in a category of type t
// applies to its account: negative for expenses, positive for income.
func Effect(t core.CategoryType, amount core.Money) core.Money {
	return core.Money{Cents: t.Sign() * amount.Cents}
}

// Apply returns balance after the transaction takes effect.
func Apply(balance core.Money, t core.CategoryType, amount core.Money) core.Money {
	return balance.Add(Effect(t, amount))
}

// Reverse returns balance with the transaction's effect undone.
func Reverse(balance core.Money, t core.CategoryType, amount core.Money) core.Money {
	return balance.Sub(Effect(t, amount))
}

// Entry is the part of a transaction the rule looks at.
type Entry struct {
	AccountID int64
	Type      core.CategoryType
	Amount    core.Money
}

// Delta is a balance adjustment for one account.
type Delta struct {
	AccountID int64
	Amount    core.Money
}

// Insert is the adjustment for a new transaction.
func Insert(e Entry) Delta {
	return Delta{AccountID: e.AccountID, Amount: Apply(core.Money{}, e.Type, e.Amount)}
}

// Remove is the adjustment for a deleted transaction.
func Remove(e Entry) Delta {
	return Delta{AccountID: e.AccountID, Amount: Reverse(core.Money{}, e.Type, e.Amount)}
}

// Rebalance computes the adjustments that turn the effect of before into the
// effect of after. When both sides hit the same account the two steps merge
// into one delta; a zero net change yields no delta at all.
func Rebalance(before, after Entry) []Delta {
	undo, redo := Remove(before), Insert(after)

	if undo.AccountID == redo.AccountID {
		net := undo.Amount.Add(redo.Amount)
		if net.IsZero() {
			return nil
		}
		return []Delta{{AccountID: undo.AccountID, Amount: net}}
	}
	return []Delta{undo, redo}
}
