// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"agora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes how the Factory generates and persists entities.
type SeedOptions struct {
	// DryRun builds entities and assigns synthetic IDs without touching
	// the database.
	DryRun bool
	// SkipBcrypt stores seed passwords as plaintext for faster dev runs.
	SkipBcrypt bool
	// MaxDays bounds how far in the past generated timestamps spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Role:     models.RoleCustomer,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s (%s)", user.Username, user.Role)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildTopic constructs a topic struct with generated content and a
// realistic created_at spread but does not persist it. Useful for batching.
func (f *Factory) BuildTopic(user *models.User, category *models.Category, overrides ...func(*models.Topic)) *models.Topic {
	topic := &models.Topic{
		Title:      gofakeit.Sentence(4),
		Body:       gofakeit.Paragraph(1, 3, 8, "\n"),
		CategoryID: category.ID,
		UserID:     user.ID,
		IsPrivate:  category.IsPrivate,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	topic.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(topic)
	}
	return topic
}

// CreateTopic constructs and persists a sample topic for the given user.
func (f *Factory) CreateTopic(user *models.User, category *models.Category, overrides ...func(*models.Topic)) (*models.Topic, error) {
	topic := f.BuildTopic(user, category, overrides...)

	if f.opts.DryRun {
		f.nextID++
		topic.ID = f.nextID
		log.Printf("[dry-run] CreateTopic: category=%d user=%d title=%q", topic.CategoryID, topic.UserID, topic.Title)
		return topic, nil
	}

	if err := f.db.Create(topic).Error; err != nil {
		return nil, err
	}
	return topic, nil
}

// CreateTopicsBatch persists multiple topics in a single DB call when possible.
func (f *Factory) CreateTopicsBatch(topics []*models.Topic) error {
	if f.opts.DryRun {
		for _, t := range topics {
			f.nextID++
			t.ID = f.nextID
		}
		log.Printf("[dry-run] CreateTopicsBatch: %d topics (no DB write)", len(topics))
		return nil
	}
	return f.db.Create(&topics).Error
}

// CreateReply constructs and persists a reply on the given topic.
func (f *Factory) CreateReply(user *models.User, topic *models.Topic, overrides ...func(*models.Reply)) (*models.Reply, error) {
	reply := &models.Reply{
		Content: gofakeit.Sentence(gofakeit.Number(4, 20)),
		TopicID: topic.ID,
		UserID:  user.ID,
	}

	for _, override := range overrides {
		override(reply)
	}

	if f.opts.DryRun {
		f.nextID++
		reply.ID = f.nextID
		return reply, nil
	}

	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreateVote records a vote by the user on the given reply.
func (f *Factory) CreateVote(user *models.User, reply *models.Reply, value int) error {
	if f.opts.DryRun {
		return nil
	}
	vote := &models.Vote{
		ReplyID: reply.ID,
		UserID:  user.ID,
		Value:   value,
	}
	return f.db.Create(vote).Error
}

// CreateMessage sends a direct message from sender to receiver.
func (f *Factory) CreateMessage(sender, receiver *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	msg := &models.Message{
		Content:    gofakeit.Sentence(gofakeit.Number(3, 15)),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
	}

	for _, override := range overrides {
		override(msg)
	}

	if f.opts.DryRun {
		f.nextID++
		msg.ID = f.nextID
		return msg, nil
	}

	if err := f.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
