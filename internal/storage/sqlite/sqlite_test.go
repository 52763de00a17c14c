package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/poolup/poolup/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()

	user := models.NewUser(username, username+"@example.com", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func mustCreateGroup(t *testing.T, store *SQLiteStore, creatorID string) *models.Group {
	t.Helper()

	group := &models.Group{
		Name:         "Test Pool",
		TargetAmount: 1000,
		CreatedBy:    creatorID,
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and enforces uniqueness", func(t *testing.T) {
		user := mustCreateUser(t, store, "alice")
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		dup := models.NewUser("alice", "other@example.com", "hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, models.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate for reused username, got %v", err)
		}
	})

	t.Run("GetUserByEmail and ByUsername find the same row", func(t *testing.T) {
		created := mustCreateUser(t, store, "bob")

		byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		byName, err := store.GetUserByUsername(ctx, "bob")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if byEmail.ID != created.ID || byName.ID != created.ID {
			t.Errorf("ID mismatch: email=%s username=%s want %s", byEmail.ID, byName.ID, created.ID)
		}
	})

	t.Run("GetUserByID returns ErrNotFound for unknown id", func(t *testing.T) {
		if _, err := store.GetUserByID(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStoreGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup also creates admin membership", func(t *testing.T) {
		user := mustCreateUser(t, store, "carol")
		group := mustCreateGroup(t, store, user.ID)

		m, err := store.GetMembership(ctx, user.ID, group.ID)
		if err != nil {
			t.Fatalf("GetMembership failed: %v", err)
		}
		if !m.IsAdmin {
			t.Error("Expected creator membership to be admin")
		}
	})

	t.Run("UpdateGroupFields applies only non-nil fields", func(t *testing.T) {
		user := mustCreateUser(t, store, "dave")
		group := mustCreateGroup(t, store, user.ID)

		name := "Renamed Pool"
		if err := store.UpdateGroupFields(ctx, group.ID, models.GroupPatch{Name: &name}); err != nil {
			t.Fatalf("UpdateGroupFields failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != name {
			t.Errorf("Name: got %q, want %q", got.Name, name)
		}
		if got.TargetAmount != group.TargetAmount {
			t.Errorf("TargetAmount changed unexpectedly: got %f, want %f", got.TargetAmount, group.TargetAmount)
		}
	})

	t.Run("DeleteGroup cascades to memberships and transactions", func(t *testing.T) {
		user := mustCreateUser(t, store, "erin")
		group := mustCreateGroup(t, store, user.ID)

		contribution := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 50}
		if err := store.AddContribution(ctx, contribution); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}

		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected group gone, got %v", err)
		}
		if _, err := store.GetMembership(ctx, user.ID, group.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected membership gone, got %v", err)
		}
		if _, err := store.GetTransaction(ctx, contribution.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected transaction gone, got %v", err)
		}
	})

	t.Run("DeleteGroup on unknown id returns ErrNotFound", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStoreMemberships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateMembership enforces pair uniqueness", func(t *testing.T) {
		admin := mustCreateUser(t, store, "frank")
		member := mustCreateUser(t, store, "grace")
		group := mustCreateGroup(t, store, admin.ID)

		m := &models.Membership{UserID: member.ID, GroupID: group.ID}
		if err := store.CreateMembership(ctx, m); err != nil {
			t.Fatalf("CreateMembership failed: %v", err)
		}

		dup := &models.Membership{UserID: member.ID, GroupID: group.ID}
		if err := store.CreateMembership(ctx, dup); !errors.Is(err, models.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("RemoveMember blocks the only admin while others remain", func(t *testing.T) {
		admin := mustCreateUser(t, store, "heidi")
		member := mustCreateUser(t, store, "ivan")
		group := mustCreateGroup(t, store, admin.ID)

		if err := store.CreateMembership(ctx, &models.Membership{UserID: member.ID, GroupID: group.ID}); err != nil {
			t.Fatalf("CreateMembership failed: %v", err)
		}

		if err := store.RemoveMember(ctx, admin.ID, group.ID); !errors.Is(err, models.ErrLastAdmin) {
			t.Errorf("Expected ErrLastAdmin, got %v", err)
		}

		// Membership should be untouched after the failed leave.
		if _, err := store.GetMembership(ctx, admin.ID, group.ID); err != nil {
			t.Errorf("Admin membership should survive a blocked leave: %v", err)
		}

		// After promoting the other member the admin may leave.
		if err := store.SetMembershipAdmin(ctx, member.ID, group.ID, true); err != nil {
			t.Fatalf("SetMembershipAdmin failed: %v", err)
		}
		if err := store.RemoveMember(ctx, admin.ID, group.ID); err != nil {
			t.Errorf("RemoveMember after promotion failed: %v", err)
		}
	})

	t.Run("RemoveMember lets a sole member leave", func(t *testing.T) {
		admin := mustCreateUser(t, store, "judy")
		group := mustCreateGroup(t, store, admin.ID)

		if err := store.RemoveMember(ctx, admin.ID, group.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}

		members, err := store.ListMembershipsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembershipsByGroup failed: %v", err)
		}
		if len(members) != 0 {
			t.Errorf("Expected 0 memberships, got %d", len(members))
		}
	})
}

func TestSQLiteStoreTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("AddContribution increments balance atomically", func(t *testing.T) {
		user := mustCreateUser(t, store, "kim")
		group := mustCreateGroup(t, store, user.ID)

		tx := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 200}
		if err := store.AddContribution(ctx, tx); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}
		if tx.Status != models.StatusApproved || tx.Type != models.TypeDeposit {
			t.Errorf("Expected approved deposit, got %s/%s", tx.Type, tx.Status)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.CurrentAmount != 200 {
			t.Errorf("Balance: got %f, want 200", got.CurrentAmount)
		}
	})

	t.Run("AddContribution to unknown group fails and records nothing", func(t *testing.T) {
		user := mustCreateUser(t, store, "leo")

		tx := &models.Transaction{UserID: user.ID, GroupID: "nope", Amount: 10}
		if err := store.AddContribution(ctx, tx); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetTransaction(ctx, tx.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected no transaction row, got %v", err)
		}
	})

	t.Run("AddWithdrawalRequest checks funds and creates no row on failure", func(t *testing.T) {
		user := mustCreateUser(t, store, "mallory")
		group := mustCreateGroup(t, store, user.ID)

		if err := store.AddContribution(ctx, &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 100}); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}

		over := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 500}
		if err := store.AddWithdrawalRequest(ctx, over); !errors.Is(err, models.ErrInsufficientFunds) {
			t.Errorf("Expected ErrInsufficientFunds, got %v", err)
		}

		txs, err := store.ListTransactionsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListTransactionsByGroup failed: %v", err)
		}
		if len(txs) != 1 {
			t.Errorf("Expected only the contribution, got %d rows", len(txs))
		}
	})

	t.Run("DecideWithdrawal approves once and moves the balance once", func(t *testing.T) {
		user := mustCreateUser(t, store, "nina")
		group := mustCreateGroup(t, store, user.ID)

		if err := store.AddContribution(ctx, &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 300}); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}
		withdrawal := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 120}
		if err := store.AddWithdrawalRequest(ctx, withdrawal); err != nil {
			t.Fatalf("AddWithdrawalRequest failed: %v", err)
		}

		decided, err := store.DecideWithdrawal(ctx, withdrawal.ID, models.StatusApproved)
		if err != nil {
			t.Fatalf("DecideWithdrawal failed: %v", err)
		}
		if decided.Status != models.StatusApproved {
			t.Errorf("Status: got %s, want approved", decided.Status)
		}

		group2, _ := store.GetGroup(ctx, group.ID)
		if group2.CurrentAmount != 180 {
			t.Errorf("Balance: got %f, want 180", group2.CurrentAmount)
		}

		// Second decision must fail without touching the balance.
		if _, err := store.DecideWithdrawal(ctx, withdrawal.ID, models.StatusApproved); !errors.Is(err, models.ErrAlreadyDecided) {
			t.Errorf("Expected ErrAlreadyDecided, got %v", err)
		}
		group3, _ := store.GetGroup(ctx, group.ID)
		if group3.CurrentAmount != 180 {
			t.Errorf("Balance changed on replay: got %f, want 180", group3.CurrentAmount)
		}
	})

	t.Run("DecideWithdrawal rejects without balance effect", func(t *testing.T) {
		user := mustCreateUser(t, store, "oscar")
		group := mustCreateGroup(t, store, user.ID)

		if err := store.AddContribution(ctx, &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 80}); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}
		withdrawal := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 50}
		if err := store.AddWithdrawalRequest(ctx, withdrawal); err != nil {
			t.Fatalf("AddWithdrawalRequest failed: %v", err)
		}

		if _, err := store.DecideWithdrawal(ctx, withdrawal.ID, models.StatusRejected); err != nil {
			t.Fatalf("DecideWithdrawal failed: %v", err)
		}
		group2, _ := store.GetGroup(ctx, group.ID)
		if group2.CurrentAmount != 80 {
			t.Errorf("Balance: got %f, want 80", group2.CurrentAmount)
		}
	})

	t.Run("DecideWithdrawal re-checks sufficiency at approval time", func(t *testing.T) {
		user := mustCreateUser(t, store, "peggy")
		group := mustCreateGroup(t, store, user.ID)

		if err := store.AddContribution(ctx, &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 100}); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}

		// Two requests both valid at request time against the same 100.
		first := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 70}
		second := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 70}
		if err := store.AddWithdrawalRequest(ctx, first); err != nil {
			t.Fatalf("AddWithdrawalRequest failed: %v", err)
		}
		if err := store.AddWithdrawalRequest(ctx, second); err != nil {
			t.Fatalf("AddWithdrawalRequest failed: %v", err)
		}

		if _, err := store.DecideWithdrawal(ctx, first.ID, models.StatusApproved); err != nil {
			t.Fatalf("First approval failed: %v", err)
		}
		if _, err := store.DecideWithdrawal(ctx, second.ID, models.StatusApproved); !errors.Is(err, models.ErrInsufficientFunds) {
			t.Errorf("Expected ErrInsufficientFunds on second approval, got %v", err)
		}

		// The second request stays pending and the balance stays at 30.
		got, err := store.GetTransaction(ctx, second.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.Status != models.StatusPending {
			t.Errorf("Status: got %s, want pending", got.Status)
		}
		group2, _ := store.GetGroup(ctx, group.ID)
		if group2.CurrentAmount != 30 {
			t.Errorf("Balance: got %f, want 30", group2.CurrentAmount)
		}
	})

	t.Run("ListTransactionsByGroup orders most recent first", func(t *testing.T) {
		user := mustCreateUser(t, store, "quinn")
		group := mustCreateGroup(t, store, user.ID)

		older := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 10, CreatedAt: 100}
		newer := &models.Transaction{UserID: user.ID, GroupID: group.ID, Amount: 20, CreatedAt: 200}
		if err := store.AddContribution(ctx, older); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}
		if err := store.AddContribution(ctx, newer); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}

		txs, err := store.ListTransactionsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListTransactionsByGroup failed: %v", err)
		}
		if len(txs) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(txs))
		}
		if txs[0].ID != newer.ID || txs[1].ID != older.ID {
			t.Errorf("Expected newest first, got [%s, %s]", txs[0].ID, txs[1].ID)
		}
	})
}
