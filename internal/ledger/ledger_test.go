package ledger

import (
	"testing"

	"ledger/internal/core"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		typ     core.CategoryType
		amount  int64
		want    int64
	}{
		{"expense decreases", 10000000, core.Expense, 3000000, 7000000},
		{"income increases", 0, core.Income, 5000, 5000},
		{"expense can go negative", 100, core.Expense, 250, -150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(core.Cents(tt.balance), tt.typ, core.Cents(tt.amount))
			if got.Cents != tt.want {
				t.Fatalf("Apply() = %d, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestReverseUndoesApply(t *testing.T) {
	balances := []int64{0, 1, -500, 10000000}
	amounts := []int64{1, 99, 3000000}
	for _, typ := range []core.CategoryType{core.Income, core.Expense} {
		for _, b := range balances {
			for _, a := range amounts {
				start := core.Cents(b)
				got := Reverse(Apply(start, typ, core.Cents(a)), typ, core.Cents(a))
				if got != start {
					t.Fatalf("%v: Reverse(Apply(%d, %d)) = %d", typ, b, a, got.Cents)
				}
			}
		}
	}
}

func TestRebalance(t *testing.T) {
	tests := []struct {
		name   string
		before Entry
		after  Entry
		want   []Delta
	}{
		{
			name:   "expense amount increase moves by the difference only",
			before: Entry{AccountID: 1, Type: core.Expense, Amount: core.Cents(100)},
			after:  Entry{AccountID: 1, Type: core.Expense, Amount: core.Cents(150)},
			want:   []Delta{{AccountID: 1, Amount: core.Cents(-50)}},
		},
		{
			name:   "income amount increase",
			before: Entry{AccountID: 1, Type: core.Income, Amount: core.Cents(100)},
			after:  Entry{AccountID: 1, Type: core.Income, Amount: core.Cents(150)},
			want:   []Delta{{AccountID: 1, Amount: core.Cents(50)}},
		},
		{
			name:   "no change",
			before: Entry{AccountID: 1, Type: core.Expense, Amount: core.Cents(100)},
			after:  Entry{AccountID: 1, Type: core.Expense, Amount: core.Cents(100)},
			want:   nil,
		},
		{
			name:   "switch expense to income category",
			before: Entry{AccountID: 1, Type: core.Expense, Amount: core.Cents(100)},
			after:  Entry{AccountID: 1, Type: core.Income, Amount: core.Cents(100)},
			want:   []Delta{{AccountID: 1, Amount: core.Cents(200)}},
		},
		{
			name:   "move to another account",
			before: Entry{AccountID: 1, Type: core.Expense, Amount: core.Cents(100)},
			after:  Entry{AccountID: 2, Type: core.Expense, Amount: core.Cents(120)},
			want:   []Delta{
				{AccountID: 1, Amount: core.Cents(100)},
				{AccountID: 2, Amount: core.Cents(-120)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rebalance(tt.before, tt.after)
			if len(got) != len(tt.want) {
				t.Fatalf("Rebalance() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Rebalance()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInsertRemove(t *testing.T) {
	e := Entry{AccountID: 7, Type: core.Expense, Amount: core.Cents(3000000)}

	in := Insert(e)
	if in.AccountID != 7 || in.Amount.Cents != -3000000 {
		t.Fatalf("Insert() = %+v", in)
	}
	out := Remove(e)
	if out.AccountID != 7 || out.Amount.Cents != 3000000 {
		t.Fatalf("Remove() = %+v", out)
	}
	if !in.Amount.Add(out.Amount).IsZero() {
		t.Fatal("Remove must cancel Insert")
	}
}
