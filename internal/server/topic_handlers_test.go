package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"agora/internal/listing"
	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetTopic_Visibility(t *testing.T) {
	private := &models.Topic{ID: 3, Title: "Staff only", IsPrivate: true}

	t.Run("anonymous gets 401", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(private, nil)

		resp, err := ts.app.Test(jsonRequest(http.MethodGet, "/api/topics/3", ""))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("customer gets 403", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(private, nil)
		bearer := ts.tokenFor(t, &models.User{ID: 1, Username: "alice", Role: models.RoleCustomer})

		resp, err := ts.app.Test(authed(jsonRequest(http.MethodGet, "/api/topics/3", ""), bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin gets the topic with replies", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(private, nil)
		ts.replies.On("ListByTopic", mock.Anything, uint(3), "", listing.Order{By: "created_at"}, 50, 0).
			Return([]*models.Reply{{ID: 7, TopicID: 3}}, nil)
		bearer := ts.tokenFor(t, &models.User{ID: 2, Username: "root", Role: models.RoleAdmin})

		resp, err := ts.app.Test(authed(jsonRequest(http.MethodGet, "/api/topics/3", ""), bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var topic models.Topic
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&topic))
		assert.Len(t, topic.Replies, 1)
	})

	t.Run("invalid id gets 400", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := ts.app.Test(jsonRequest(http.MethodGet, "/api/topics/abc", ""))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetTopic_ReplySortAndSearch(t *testing.T) {
	public := &models.Topic{ID: 3, Title: "Open thread"}

	t.Run("sort and sort_by order the reply page", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(public, nil)
		ts.replies.On("ListByTopic", mock.Anything, uint(3), "", listing.Order{By: "upvotes", Desc: true}, 50, 0).
			Return([]*models.Reply{{ID: 9, TopicID: 3, Upvotes: 12}}, nil)

		resp, err := ts.app.Test(jsonRequest(http.MethodGet, "/api/topics/3?sort=desc&sort_by=upvotes", ""))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ts.replies.AssertExpectations(t)
	})

	t.Run("search narrows the reply page", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(public, nil)
		ts.replies.On("ListByTopic", mock.Anything, uint(3), "daemon", listing.Order{By: "created_at"}, 50, 0).
			Return([]*models.Reply{}, nil)

		resp, err := ts.app.Test(jsonRequest(http.MethodGet, "/api/topics/3?search=daemon", ""))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ts.replies.AssertExpectations(t)
	})
}

func TestCreateTopic(t *testing.T) {
	t.Run("authenticated customer creates", func(t *testing.T) {
		ts := newTestServer(t)
		ts.cats.On("GetByID", mock.Anything, uint(2)).Return(&models.Category{ID: 2}, nil)
		ts.topics.On("Create", mock.Anything, mock.Anything).Return(nil)
		bearer := ts.tokenFor(t, &models.User{ID: 1, Username: "alice", Role: models.RoleCustomer})

		req := jsonRequest(http.MethodPost, "/api/categories/2/topics",
			`{"title":"First topic","body":"A body long enough to pass."}`)
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		ts := newTestServer(t)

		req := jsonRequest(http.MethodPost, "/api/categories/2/topics",
			`{"title":"First topic","body":"A body long enough to pass."}`)
		resp, err := ts.app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing category gets 404", func(t *testing.T) {
		ts := newTestServer(t)
		ts.cats.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Category", uint(99)))
		bearer := ts.tokenFor(t, &models.User{ID: 1, Username: "alice", Role: models.RoleCustomer})

		req := jsonRequest(http.MethodPost, "/api/categories/99/topics",
			`{"title":"First topic","body":"A body long enough to pass."}`)
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateTopic_RoleSplit(t *testing.T) {
	t.Run("owner edit ignores moderation fields", func(t *testing.T) {
		ts := newTestServer(t)
		owned := &models.Topic{ID: 3, UserID: 1, Title: "Old title", Body: "Old body text here"}
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(owned, nil)
		ts.topics.On("Update", mock.Anything, mock.MatchedBy(func(topic *models.Topic) bool {
			return !topic.IsLocked && topic.Title == "New title"
		})).Return(nil)
		bearer := ts.tokenFor(t, &models.User{ID: 1, Username: "alice", Role: models.RoleCustomer})

		req := jsonRequest(http.MethodPut, "/api/topics/3",
			`{"title":"New title","is_locked":true}`)
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("admin edit applies moderation fields", func(t *testing.T) {
		ts := newTestServer(t)
		topic := &models.Topic{ID: 3, UserID: 1, Title: "Old title", Body: "Old body text here"}
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(topic, nil)
		ts.topics.On("Update", mock.Anything, mock.MatchedBy(func(topic *models.Topic) bool {
			return topic.IsLocked
		})).Return(nil)
		bearer := ts.tokenFor(t, &models.User{ID: 2, Username: "root", Role: models.RoleAdmin})

		req := jsonRequest(http.MethodPut, "/api/topics/3", `{"is_locked":true}`)
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestBestReplyEndpoints(t *testing.T) {
	owned := func() *models.Topic { return &models.Topic{ID: 3, UserID: 1} }

	t.Run("owner assigns", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(owned(), nil)
		ts.replies.On("GetByID", mock.Anything, uint(8)).Return(&models.Reply{ID: 8, TopicID: 3}, nil)
		ts.topics.On("Update", mock.Anything, mock.Anything).Return(nil)
		bearer := ts.tokenFor(t, &models.User{ID: 1, Username: "alice", Role: models.RoleCustomer})

		req := jsonRequest(http.MethodPut, "/api/topics/3/best-reply", `{"reply_id":8}`)
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("reply from another topic gets 400", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(owned(), nil)
		ts.replies.On("GetByID", mock.Anything, uint(8)).Return(&models.Reply{ID: 8, TopicID: 99}, nil)
		bearer := ts.tokenFor(t, &models.User{ID: 1, Username: "alice", Role: models.RoleCustomer})

		req := jsonRequest(http.MethodPut, "/api/topics/3/best-reply", `{"reply_id":8}`)
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("admin cannot assign for someone else", func(t *testing.T) {
		ts := newTestServer(t)
		ts.topics.On("GetByID", mock.Anything, uint(3)).Return(owned(), nil)
		bearer := ts.tokenFor(t, &models.User{ID: 2, Username: "root", Role: models.RoleAdmin})

		req := jsonRequest(http.MethodPut, "/api/topics/3/best-reply", `{"reply_id":8}`)
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner removes", func(t *testing.T) {
		ts := newTestServer(t)
		best := uint(8)
		ts.topics.On("GetByID", mock.Anything, uint(3)).
			Return(&models.Topic{ID: 3, UserID: 1, BestReplyID: &best}, nil)
		ts.topics.On("Update", mock.Anything, mock.MatchedBy(func(topic *models.Topic) bool {
			return topic.BestReplyID == nil
		})).Return(nil)
		bearer := ts.tokenFor(t, &models.User{ID: 1, Username: "alice", Role: models.RoleCustomer})

		req := jsonRequest(http.MethodDelete, "/api/topics/3/best-reply", "")
		resp, err := ts.app.Test(authed(req, bearer))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
