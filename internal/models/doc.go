// Package models defines the core domain models for the finance backend.
//
// # Ledger
//
//   - Account: a money container owned by one user. Its Balance is a cached
//     value, always recomputed from the opening balance and the account's
//     non-deleted transactions.
//   - Category: income, expense or transfer bucket. System categories are
//     shared by every user.
//   - Transaction: a signed amount (negative = expense, positive = income)
//     booked against one account and one category.
//
// # Budgets
//
//   - Budget: a spending limit for one category over a period.
//   - BudgetStatus: computed view of a budget against the ledger. Never persisted.
//   - Alert: informational output derived from a BudgetStatus.
//
// # Bill splitting
//
//   - Group: a set of users who share bills.
//   - BillSplit: a bill divided among participants.
//   - SplitParticipant: one user's share of a bill and its payment state.
//   - Settlement: a single payment recorded against a share.
//
// # Design Principles
//
//  1. Status values are typed enums with explicit transition tables, so a
//     paid share can never go back to pending.
//  2. Relationships are ID strings, never pointers.
//  3. Deletion is soft (DeletedAt) for anything other rows reference.
package models
