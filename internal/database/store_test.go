// internal/database/store_test.go
package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/config"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// testStore connects to the database named by the environment (see
// internal/config) and skips the test when none is reachable.
func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := Connect(context.Background(), config.Load().DatabaseURL)
	if err != nil {
		t.Skipf("no test database available: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

// createTestUser inserts a user with a unique username.
func createTestUser(t *testing.T, store *Store, name string) *models.User {
	t.Helper()

	u := &models.User{
		Username:  fmt.Sprintf("%s_%s", name, uuid.NewString()[:8]),
		FirstName: name,
		LastName:  "Test",
		Password:  "password",
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}
