package services_test

import (
	"fmt"
	"testing"

	"phonebook_backend/internal/models"
	"phonebook_backend/internal/repositories"
	"phonebook_backend/internal/services"
	"phonebook_backend/internal/services/dto"
	"phonebook_backend/internal/testutil"
	"phonebook_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContactFixture(t *testing.T) (*gorm.DB, services.ContactService) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	return db, services.NewContactService(repositories.NewContactRepository())
}

func createOwner(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Subscription: models.SubscriptionStarter,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestContactService_OwnershipCollapsesToNotFound(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")
	bob := createOwner(t, db, "bob@test.com")

	contact, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{Name: "Carol"})
	require.NoError(t, err)

	// Bob sees Alice's contact exactly like a missing one.
	_, err = svc.Get(db, bob.ID, contact.ID)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)

	name := "Hacked"
	_, err = svc.Update(db, bob.ID, contact.ID, &dto.UpdateContactRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)

	_, err = svc.Delete(db, bob.ID, contact.ID)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)

	// The owner retains full access.
	got, err := svc.Get(db, alice.ID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name)
}

func TestContactService_UnknownIDIsNotFound(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")

	_, err := svc.Get(db, alice.ID, "no-such-id")
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
}

func TestContactService_Pagination(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")
	bob := createOwner(t, db, "bob@test.com")

	for i := 0; i < 25; i++ {
		_, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{
			Name: fmt.Sprintf("Contact %02d", i),
		})
		require.NoError(t, err)
	}
	// Noise from another owner must never leak into Alice's pages.
	_, err := svc.Create(db, bob.ID, &dto.CreateContactRequest{Name: "Bob's friend"})
	require.NoError(t, err)

	page1, err := svc.List(db, alice.ID, &dto.ListContactsQuery{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page1, 20)

	page2, err := svc.List(db, alice.ID, &dto.ListContactsQuery{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page2, 5)
	for _, contact := range page2 {
		assert.Equal(t, alice.ID, contact.OwnerID)
	}
}

func TestContactService_ListDefaultsAndCap(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")

	for i := 0; i < 25; i++ {
		_, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{
			Name: fmt.Sprintf("Contact %02d", i),
		})
		require.NoError(t, err)
	}

	// Zero values fall back to page 1 / limit 20.
	contacts, err := svc.List(db, alice.ID, &dto.ListContactsQuery{})
	require.NoError(t, err)
	assert.Len(t, contacts, 20)

	// An absurd limit is capped, not honored.
	contacts, err = svc.List(db, alice.ID, &dto.ListContactsQuery{Limit: 100000})
	require.NoError(t, err)
	assert.Len(t, contacts, 25)
}

func TestContactService_FavoriteFilter(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")

	_, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{Name: "Plain"})
	require.NoError(t, err)
	fav, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{Name: "Starred", Favorite: true})
	require.NoError(t, err)

	favorite := true
	contacts, err := svc.List(db, alice.ID, &dto.ListContactsQuery{Favorite: &favorite})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, fav.ID, contacts[0].ID)

	favorite = false
	contacts, err = svc.List(db, alice.ID, &dto.ListContactsQuery{Favorite: &favorite})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Plain", contacts[0].Name)
}

func TestContactService_PartialUpdate(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")

	contact, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{
		Name:  "Carol",
		Email: "carol@test.com",
		Phone: "123-456",
	})
	require.NoError(t, err)

	phone := "999-000"
	updated, err := svc.Update(db, alice.ID, contact.ID, &dto.UpdateContactRequest{Phone: &phone})
	require.NoError(t, err)

	// Untouched fields survive a partial update.
	assert.Equal(t, "Carol", updated.Name)
	assert.Equal(t, "carol@test.com", updated.Email)
	assert.Equal(t, "999-000", updated.Phone)
}

func TestContactService_UpdateFavorite(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")

	contact, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{Name: "Carol"})
	require.NoError(t, err)
	require.False(t, contact.Favorite)

	updated, err := svc.UpdateFavorite(db, alice.ID, contact.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Favorite)
}

func TestContactService_DeleteReturnsRecord(t *testing.T) {
	db, svc := newContactFixture(t)
	alice := createOwner(t, db, "alice@test.com")

	contact, err := svc.Create(db, alice.ID, &dto.CreateContactRequest{Name: "Carol"})
	require.NoError(t, err)

	deleted, err := svc.Delete(db, alice.ID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.ID, deleted.ID)

	_, err = svc.Get(db, alice.ID, contact.ID)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
}
