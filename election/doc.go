// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election holds the voting rules.

A Service ties together the store, the wallet ledger and the image store:

	svc := election.NewService(st, wallet.NewSimulatedLedger(2*time.Second), imgs)

# Voters

RegisterVoter validates the profile, resolves the district and
constituency, hashes the password and creates the record with the voter
role. Authenticate returns models.ErrInvalidCredentials for both unknown
emails and wrong passwords.

# Voting

SubmitVote loads the voter, rejects repeat voters early, checks the
candidate belongs to the voter's constituency, obtains a transaction
reference from the ledger and hands the vote to Store.CastVote, which
applies it atomically.

# Results

GetResults orders candidates by vote count, highest first, ties by name
then id, and reports each candidate's share of the filtered total.
*/
package election
