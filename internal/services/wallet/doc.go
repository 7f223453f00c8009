/*
Package wallet manages the player wallet ledger.

The wallet service handles all wallet-related operations including:
- Balance and transaction history reads
- UPI deposit submission and admin approval/rejection
- Withdrawal requests capped at withdrawable earnings
- Stats milestone bonuses

Money movement rules:

Every operation that changes a balance writes its ledger row and the balance
update inside one database transaction. Deposits credit on approval, not on
submission. Withdrawals debit on approval, not on request. Amounts are signed
in the ledger: money in is positive, money out is negative.

Error Handling:

The service returns specific errors for different scenarios:
- ErrAlreadySettled: approving or rejecting a non-pending row
- ErrExceedsWithdrawable: withdrawal above the earnings cap
- ErrBonusAlreadyClaimed: re-claiming a stats milestone
- ErrUnknownMilestone: claiming a milestone outside the fixed table
*/
package wallet
