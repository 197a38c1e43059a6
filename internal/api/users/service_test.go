package users

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MandaAlmeida/listener-pay/config"
	"github.com/MandaAlmeida/listener-pay/internal/api/payments"
	"github.com/MandaAlmeida/listener-pay/internal/apperr"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
	"golang.org/x/crypto/bcrypt"
)

type memStore struct {
	byID      map[string]*users.User
	createErr error
}

func newMemStore(seed ...*users.User) *memStore {
	m := &memStore{byID: map[string]*users.User{}}
	for _, u := range seed {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memStore) Create(user *users.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user_%d", len(m.byID)+1)
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memStore) FindByID(id string) (*users.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (m *memStore) FindByEmail(email string) (*users.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memStore) FindByStripeCustomerID(customerID string) (*users.User, error) {
	for _, u := range m.byID {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memStore) Update(id string, updates map[string]interface{}) error { return nil }

// stripeStub answers customer list (empty) and create with a fixed id.
func stripeStub(t *testing.T, customerID string) *client.API {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"object":"list","url":"/v1/customers","has_more":false,"data":[]}`)
			return
		}
		require.NoError(t, r.ParseForm())
		fmt.Fprintf(w, `{"id":%q,"object":"customer","email":%q}`, customerID, r.PostFormValue("email"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:           stripe.String(srv.URL),
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	return client.New("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func newService(t *testing.T, store users.Store, customerID string) *Service {
	t.Helper()
	paymentsSvc := payments.NewService(stripeStub(t, customerID), store, config.Config{})
	return NewService(store, paymentsSvc)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_CreatesCustomerAndHashesPassword(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, "cus_123")

	user, err := svc.Register("John", "john@example.com", "123456")
	require.NoError(t, err)

	require.NotNil(t, user.StripeCustomerID)
	assert.Equal(t, "cus_123", *user.StripeCustomerID)
	assert.Equal(t, "john@example.com", user.Email)

	assert.NotEqual(t, "123456", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("123456")))

	stored, err := store.FindByEmail("john@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	store := newMemStore(&users.User{ID: "user_1", Email: "john@example.com"})
	svc := newService(t, store, "cus_123")

	_, err := svc.Register("John", "john@example.com", "123456")
	assert.True(t, apperr.IsConflict(err))
}

func TestLogin(t *testing.T) {
	store := newMemStore(&users.User{
		ID:       "user_1",
		Email:    "john@example.com",
		Password: hashed(t, "123456"),
	})
	svc := newService(t, store, "cus_123")

	t.Run("correct credentials", func(t *testing.T) {
		ok, err := svc.Login("john@example.com", "123456")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("john@example.com", "wrong")
		var unauthorized *apperr.UnauthorizedError
		assert.ErrorAs(t, err, &unauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("nobody@example.com", "123456")
		var unauthorized *apperr.UnauthorizedError
		assert.ErrorAs(t, err, &unauthorized)
	})
}

func TestFetchByID(t *testing.T) {
	store := newMemStore(&users.User{ID: "user_1", Email: "john@example.com"})
	svc := newService(t, store, "cus_123")

	user, err := svc.FetchByID("user_1")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", user.Email)

	_, err = svc.FetchByID("ghost")
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
