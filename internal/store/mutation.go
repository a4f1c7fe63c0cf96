package store

import "github.com/placementdesk/backend/internal/models"

// Mutation is one document write. A nil Doc deletes the document.
type Mutation struct {
	Collection string
	ID         string
	Doc        any
}

// The functions below change a working snapshot in place and return the write
// that persists the change. They are meant to be called from State.Apply.

func PutAccount(snap *models.Snapshot, a models.Account) Mutation {
	snap.Accounts = upsert(snap.Accounts, a, func(x models.Account) string { return x.ID })
	return Mutation{Collection: CollectionAccounts, ID: a.ID, Doc: a}
}

func DeleteAccount(snap *models.Snapshot, id string) Mutation {
	snap.Accounts = remove(snap.Accounts, id, func(x models.Account) string { return x.ID })
	return Mutation{Collection: CollectionAccounts, ID: id}
}

func PutCandidate(snap *models.Snapshot, c models.Candidate) Mutation {
	snap.Candidates = upsert(snap.Candidates, c, func(x models.Candidate) string { return x.ID })
	return Mutation{Collection: CollectionCandidates, ID: c.ID, Doc: c}
}

func DeleteCandidate(snap *models.Snapshot, id string) Mutation {
	snap.Candidates = remove(snap.Candidates, id, func(x models.Candidate) string { return x.ID })
	return Mutation{Collection: CollectionCandidates, ID: id}
}

func PutStaff(snap *models.Snapshot, s models.Staff) Mutation {
	snap.Staff = upsert(snap.Staff, s, func(x models.Staff) string { return x.ID })
	return Mutation{Collection: CollectionStaff, ID: s.ID, Doc: s}
}

func DeleteStaff(snap *models.Snapshot, id string) Mutation {
	snap.Staff = remove(snap.Staff, id, func(x models.Staff) string { return x.ID })
	return Mutation{Collection: CollectionStaff, ID: id}
}

func PutTransaction(snap *models.Snapshot, t models.Transaction) Mutation {
	snap.Transactions = upsert(snap.Transactions, t, func(x models.Transaction) string { return x.ID })
	return Mutation{Collection: CollectionTransactions, ID: t.ID, Doc: t}
}

func DeleteTransaction(snap *models.Snapshot, id string) Mutation {
	snap.Transactions = remove(snap.Transactions, id, func(x models.Transaction) string { return x.ID })
	return Mutation{Collection: CollectionTransactions, ID: id}
}

func PutObligation(snap *models.Snapshot, o models.Obligation) Mutation {
	snap.Obligations = upsert(snap.Obligations, o, func(x models.Obligation) string { return x.ID })
	return Mutation{Collection: CollectionObligations, ID: o.ID, Doc: o}
}

func DeleteObligation(snap *models.Snapshot, id string) Mutation {
	snap.Obligations = remove(snap.Obligations, id, func(x models.Obligation) string { return x.ID })
	return Mutation{Collection: CollectionObligations, ID: id}
}

func upsert[T any](list []T, v T, key func(T) string) []T {
	id := key(v)
	for i := range list {
		if key(list[i]) == id {
			list[i] = v
			return list
		}
	}
	return append(list, v)
}

func remove[T any](list []T, id string, key func(T) string) []T {
	out := list[:0]
	for _, v := range list {
		if key(v) != id {
			out = append(out, v)
		}
	}
	return out
}
