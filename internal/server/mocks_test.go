package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agora/internal/config"
	"agora/internal/listing"
	"agora/internal/models"
	"agora/internal/service"
	"agora/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockCategoryRepository is a mock of the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Category, error) {
	args := m.Called(ctx, search, includePrivate, order, limit, offset)
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateWithPrivacyCascade(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTopicRepository is a mock of the TopicRepository interface
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) GetByID(ctx context.Context, id uint) (*models.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *MockTopicRepository) List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	args := m.Called(ctx, search, includePrivate, order, limit, offset)
	return args.Get(0).([]*models.Topic), args.Error(1)
}

func (m *MockTopicRepository) ListByCategory(ctx context.Context, categoryID uint, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	args := m.Called(ctx, categoryID, search, includePrivate, order, limit, offset)
	return args.Get(0).([]*models.Topic), args.Error(1)
}

func (m *MockTopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReplyRepository is a mock of the ReplyRepository interface
type MockReplyRepository struct {
	mock.Mock
}

func (m *MockReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReplyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reply), args.Error(1)
}

func (m *MockReplyRepository) ListByTopic(ctx context.Context, topicID uint, search string, order listing.Order, limit, offset int) ([]*models.Reply, error) {
	args := m.Called(ctx, topicID, search, order, limit, offset)
	return args.Get(0).([]*models.Reply), args.Error(1)
}

func (m *MockReplyRepository) Update(ctx context.Context, reply *models.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReplyRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVoteRepository is a mock of the VoteRepository interface
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Get(ctx context.Context, replyID, userID uint) (*models.Vote, error) {
	args := m.Called(ctx, replyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *MockVoteRepository) Insert(ctx context.Context, vote *models.Vote) (bool, error) {
	args := m.Called(ctx, vote)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoteRepository) UpdateValue(ctx context.Context, replyID, userID uint, value int) error {
	args := m.Called(ctx, replyID, userID, value)
	return args.Error(0)
}

func (m *MockVoteRepository) Delete(ctx context.Context, replyID, userID uint) error {
	args := m.Called(ctx, replyID, userID)
	return args.Error(0)
}

// MockMessageRepository is a mock of the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) Conversation(ctx context.Context, userA, userB uint, limit, offset int) ([]*models.Message, error) {
	args := m.Called(ctx, userA, userB, limit, offset)
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageRepository) Partners(ctx context.Context, userID uint) ([]models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockMessageRepository) Update(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// testServer bundles a Server with its mocked repositories.
type testServer struct {
	server   *Server
	app      *fiber.App
	users    *MockUserRepository
	cats     *MockCategoryRepository
	topics   *MockTopicRepository
	replies  *MockReplyRepository
	votes    *MockVoteRepository
	messages *MockMessageRepository
}

// newTestServer builds a Server on mocked repositories with routes wired.
// No database or Redis is involved; rate limits are bypassed via APP_ENV.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		users:    new(MockUserRepository),
		cats:     new(MockCategoryRepository),
		topics:   new(MockTopicRepository),
		replies:  new(MockReplyRepository),
		votes:    new(MockVoteRepository),
		messages: new(MockMessageRepository),
	}

	cfg := &config.Config{JWTSecret: "test_secret", Env: "test"}
	s := &Server{
		config:       cfg,
		tokens:       token.NewManager(cfg.JWTSecret, time.Hour),
		userRepo:     ts.users,
		categoryRepo: ts.cats,
		topicRepo:    ts.topics,
		replyRepo:    ts.replies,
		voteRepo:     ts.votes,
		messageRepo:  ts.messages,
	}
	s.userService = service.NewUserService(s.userRepo, s.tokens)
	s.categoryService = service.NewCategoryService(s.categoryRepo, s.topicRepo)
	s.topicService = service.NewTopicService(s.topicRepo, s.categoryRepo, s.replyRepo)
	s.replyService = service.NewReplyService(s.replyRepo, s.topicRepo)
	s.voteService = service.NewVoteService(s.voteRepo, s.replyRepo, s.topicRepo)
	s.messageService = service.NewMessageService(s.messageRepo, s.userRepo)

	app := fiber.New()
	s.SetupRoutes(app)

	ts.server = s
	ts.app = app
	return ts
}

// tokenFor issues a bearer token for user and registers the username lookup
// the auth middleware performs on every request.
func (ts *testServer) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	signed, err := ts.server.tokens.Issue(user)
	require.NoError(t, err)
	ts.users.On("GetByUsername", mock.Anything, user.Username).Return(user, nil)
	return signed
}

func authed(req *http.Request, bearer string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+bearer)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}
