package service

import (
	"context"
	"errors"
	"testing"

	"agora/internal/listing"
	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Repository stubs with function fields so each test overrides only the
// calls it cares about.

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

type categoryRepoStub struct {
	createFn  func(context.Context, *models.Category) error
	getByIDFn func(context.Context, uint) (*models.Category, error)
	listFn    func(context.Context, string, bool, listing.Order, int, int) ([]*models.Category, error)
	updateFn  func(context.Context, *models.Category) error
	cascadeFn func(context.Context, *models.Category) error
	deleteFn  func(context.Context, uint) error
}

func (s *categoryRepoStub) Create(ctx context.Context, c *models.Category) error {
	return s.createFn(ctx, c)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Category, error) {
	return s.listFn(ctx, search, includePrivate, order, limit, offset)
}
func (s *categoryRepoStub) Update(ctx context.Context, c *models.Category) error {
	return s.updateFn(ctx, c)
}
func (s *categoryRepoStub) UpdateWithPrivacyCascade(ctx context.Context, c *models.Category) error {
	return s.cascadeFn(ctx, c)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn:  func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) { return &models.Category{ID: id}, nil },
		listFn: func(_ context.Context, _ string, _ bool, _ listing.Order, _, _ int) ([]*models.Category, error) {
			return nil, nil
		},
		updateFn:  func(_ context.Context, _ *models.Category) error { return nil },
		cascadeFn: func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

type topicRepoStub struct {
	createFn         func(context.Context, *models.Topic) error
	getByIDFn        func(context.Context, uint) (*models.Topic, error)
	listFn           func(context.Context, string, bool, listing.Order, int, int) ([]*models.Topic, error)
	listByCategoryFn func(context.Context, uint, string, bool, listing.Order, int, int) ([]*models.Topic, error)
	updateFn         func(context.Context, *models.Topic) error
	deleteFn         func(context.Context, uint) error
}

func (s *topicRepoStub) Create(ctx context.Context, t *models.Topic) error {
	return s.createFn(ctx, t)
}
func (s *topicRepoStub) GetByID(ctx context.Context, id uint) (*models.Topic, error) {
	return s.getByIDFn(ctx, id)
}
func (s *topicRepoStub) List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	return s.listFn(ctx, search, includePrivate, order, limit, offset)
}
func (s *topicRepoStub) ListByCategory(ctx context.Context, categoryID uint, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	return s.listByCategoryFn(ctx, categoryID, search, includePrivate, order, limit, offset)
}
func (s *topicRepoStub) Update(ctx context.Context, t *models.Topic) error {
	return s.updateFn(ctx, t)
}
func (s *topicRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopTopicRepo() *topicRepoStub {
	return &topicRepoStub{
		createFn:  func(_ context.Context, _ *models.Topic) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Topic, error) { return &models.Topic{ID: id}, nil },
		listFn: func(_ context.Context, _ string, _ bool, _ listing.Order, _, _ int) ([]*models.Topic, error) {
			return nil, nil
		},
		listByCategoryFn: func(_ context.Context, _ uint, _ string, _ bool, _ listing.Order, _, _ int) ([]*models.Topic, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Topic) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

type replyRepoStub struct {
	createFn      func(context.Context, *models.Reply) error
	getByIDFn     func(context.Context, uint) (*models.Reply, error)
	listByTopicFn func(context.Context, uint, string, listing.Order, int, int) ([]*models.Reply, error)
	updateFn      func(context.Context, *models.Reply) error
	deleteFn      func(context.Context, uint) error
}

func (s *replyRepoStub) Create(ctx context.Context, r *models.Reply) error {
	return s.createFn(ctx, r)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) ListByTopic(ctx context.Context, topicID uint, search string, order listing.Order, limit, offset int) ([]*models.Reply, error) {
	return s.listByTopicFn(ctx, topicID, search, order, limit, offset)
}
func (s *replyRepoStub) Update(ctx context.Context, r *models.Reply) error {
	return s.updateFn(ctx, r)
}
func (s *replyRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn:  func(_ context.Context, _ *models.Reply) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Reply, error) { return &models.Reply{ID: id}, nil },
		listByTopicFn: func(_ context.Context, _ uint, _ string, _ listing.Order, _, _ int) ([]*models.Reply, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Reply) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

type voteRepoStub struct {
	getFn         func(context.Context, uint, uint) (*models.Vote, error)
	insertFn      func(context.Context, *models.Vote) (bool, error)
	updateValueFn func(context.Context, uint, uint, int) error
	deleteFn      func(context.Context, uint, uint) error
}

func (s *voteRepoStub) Get(ctx context.Context, replyID, userID uint) (*models.Vote, error) {
	return s.getFn(ctx, replyID, userID)
}
func (s *voteRepoStub) Insert(ctx context.Context, vote *models.Vote) (bool, error) {
	return s.insertFn(ctx, vote)
}
func (s *voteRepoStub) UpdateValue(ctx context.Context, replyID, userID uint, value int) error {
	return s.updateValueFn(ctx, replyID, userID, value)
}
func (s *voteRepoStub) Delete(ctx context.Context, replyID, userID uint) error {
	return s.deleteFn(ctx, replyID, userID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		getFn:         func(_ context.Context, _, _ uint) (*models.Vote, error) { return nil, nil },
		insertFn:      func(_ context.Context, _ *models.Vote) (bool, error) { return true, nil },
		updateValueFn: func(_ context.Context, _, _ uint, _ int) error { return nil },
		deleteFn:      func(_ context.Context, _, _ uint) error { return nil },
	}
}

type messageRepoStub struct {
	createFn       func(context.Context, *models.Message) error
	getByIDFn      func(context.Context, uint) (*models.Message, error)
	conversationFn func(context.Context, uint, uint, int, int) ([]*models.Message, error)
	partnersFn     func(context.Context, uint) ([]models.User, error)
	updateFn       func(context.Context, *models.Message) error
	deleteFn       func(context.Context, uint) error
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}
func (s *messageRepoStub) Conversation(ctx context.Context, a, b uint, limit, offset int) ([]*models.Message, error) {
	return s.conversationFn(ctx, a, b, limit, offset)
}
func (s *messageRepoStub) Partners(ctx context.Context, userID uint) ([]models.User, error) {
	return s.partnersFn(ctx, userID)
}
func (s *messageRepoStub) Update(ctx context.Context, m *models.Message) error {
	return s.updateFn(ctx, m)
}
func (s *messageRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:  func(_ context.Context, _ *models.Message) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Message, error) { return &models.Message{ID: id}, nil },
		conversationFn: func(_ context.Context, _, _ uint, _, _ int) ([]*models.Message, error) {
			return nil, nil
		},
		partnersFn: func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		updateFn:   func(_ context.Context, _ *models.Message) error { return nil },
		deleteFn:   func(_ context.Context, _ uint) error { return nil },
	}
}

// Common actors.

func customer(id uint) *models.User {
	return &models.User{ID: id, Username: "customer", Role: models.RoleCustomer}
}

func admin(id uint) *models.User {
	return &models.User{ID: id, Username: "admin", Role: models.RoleAdmin}
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeUnauthorized)
}

func assertUnauthenticatedError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeUnauthenticated)
}
