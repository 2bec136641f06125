package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jon4hz/recipebox/internal/database"
	"gorm.io/gorm"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	// User storage
	users      map[uint]*database.User
	nextUserID uint

	// Recipe storage
	recipes      map[uint]*database.Recipe
	nextRecipeID uint

	// Error simulation
	CreateUserError         error
	GetUserByIDError        error
	GetUserByUsernameError  error
	UserExistsError         error
	DeleteUserError         error
	CreateRecipeError       error
	GetRecipesError         error
	GetRecipesByUserIDError error
	PingError               error
	OptimizeError           error

	// OptimizeCalls counts calls to Optimize.
	OptimizeCalls int
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		users:        make(map[uint]*database.User),
		nextUserID:   1,
		recipes:      make(map[uint]*database.Recipe),
		nextRecipeID: 1,
	}
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uint]*database.User)
	m.nextUserID = 1
	m.recipes = make(map[uint]*database.Recipe)
	m.nextRecipeID = 1

	m.CreateUserError = nil
	m.GetUserByIDError = nil
	m.GetUserByUsernameError = nil
	m.UserExistsError = nil
	m.DeleteUserError = nil
	m.CreateRecipeError = nil
	m.GetRecipesError = nil
	m.GetRecipesByUserIDError = nil
	m.PingError = nil
	m.OptimizeError = nil
	m.OptimizeCalls = 0
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) error {
	if m.CreateUserError != nil {
		return m.CreateUserError
	}
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return database.ErrDuplicateUsername
		}
	}

	now := time.Now()
	user.ID = m.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	m.nextUserID++

	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withRecipes(user), nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			return m.withRecipes(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) UserExists(ctx context.Context, id uint) (bool, error) {
	if m.UserExistsError != nil {
		return false, m.UserExistsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.users[id]
	return ok, nil
}

func (m *MockDB) DeleteUser(ctx context.Context, id uint) error {
	if m.DeleteUserError != nil {
		return m.DeleteUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for recipeID, recipe := range m.recipes {
		if recipe.UserID != nil && *recipe.UserID == id {
			delete(m.recipes, recipeID)
		}
	}
	delete(m.users, id)
	return nil
}

func (m *MockDB) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MockDB) GetLatestUser(ctx context.Context) (*database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *database.User
	for _, user := range m.users {
		if latest == nil || user.ID > latest.ID {
			latest = user
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	u := *latest
	return &u, nil
}

// withRecipes returns a copy of user with its recipes attached. Callers must hold the lock.
func (m *MockDB) withRecipes(user *database.User) *database.User {
	u := *user
	u.Recipes = nil
	for _, r := range m.sortedRecipes() {
		if r.UserID != nil && *r.UserID == u.ID {
			u.Recipes = append(u.Recipes, r)
		}
	}
	return &u
}

// Recipe operations

func (m *MockDB) CreateRecipe(ctx context.Context, recipe *database.Recipe) error {
	if m.CreateRecipeError != nil {
		return m.CreateRecipeError
	}
	if err := recipe.BeforeCreate(nil); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	recipe.ID = m.nextRecipeID
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	m.nextRecipeID++

	stored := *recipe
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *MockDB) GetRecipes(ctx context.Context) ([]database.Recipe, error) {
	if m.GetRecipesError != nil {
		return nil, m.GetRecipesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedRecipes(), nil
}

func (m *MockDB) GetRecipesByUserID(ctx context.Context, userID uint) ([]database.Recipe, error) {
	if m.GetRecipesByUserIDError != nil {
		return nil, m.GetRecipesByUserIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var recipes []database.Recipe
	for _, r := range m.sortedRecipes() {
		if r.UserID != nil && *r.UserID == userID {
			recipes = append(recipes, r)
		}
	}
	return recipes, nil
}

func (m *MockDB) CountRecipes(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.recipes)), nil
}

// sortedRecipes returns all recipes ordered by id. Callers must hold the lock.
func (m *MockDB) sortedRecipes() []database.Recipe {
	recipes := make([]database.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		recipes = append(recipes, *r)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes
}

// Utility

func (m *MockDB) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockDB) Optimize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OptimizeCalls++
	return m.OptimizeError
}

func (m *MockDB) Close() error {
	return nil
}
