package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"agora/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumTopics   int
	ShouldClean bool
}

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
		"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
		"Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
		"Kenneth", "Dorothy", "Kevin", "Carol", "Brian", "Amanda", "George", "Melissa",
		"Edward", "Deborah", "Ronald", "Stephanie", "Timothy", "Rebecca", "Jason", "Sharon",
		"Jeffrey", "Laura", "Ryan", "Cynthia", "Jacob", "Kathleen", "Gary", "Amy",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
		"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
		"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
		"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
	}

	adjectives = []string{
		"amazing", "incredible", "fascinating", "challenging", "excited", "happy", "proud",
		"grateful", "inspired", "motivated", "curious", "passionate", "creative", "innovative",
		"collaborative", "productive", "efficient", "effective", "powerful", "simple", "complex",
		"beautiful", "elegant", "robust", "scalable", "secure", "fast", "reliable", "dynamic",
	}

	nouns = []string{
		"project", "team", "community", "code", "design", "architecture", "system", "app",
		"website", "platform", "framework", "library", "tool", "solution", "idea", "concept",
		"challenge", "opportunity", "goal", "dream", "journey", "experience", "lesson", "skill",
	}

	verbs = []string{
		"built", "created", "designed", "developed", "launched", "deployed", "shipped",
		"fixed", "solved", "learned", "discovered", "explored", "mastered", "shared",
		"improved", "optimized", "refactored", "debugged", "tested", "validated",
	}
)

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d topics...", opts.NumUsers, opts.NumTopics)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := Categories(db); err != nil {
		return fmt.Errorf("failed to seed built-in categories: %w", err)
	}

	var categories []models.Category
	if err := db.Order("id").Find(&categories).Error; err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	log.Printf("✓ %d categories available", len(categories))

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	topics, err := createTopics(db, users, categories, opts.NumTopics)
	if err != nil {
		return fmt.Errorf("failed to create topics: %w", err)
	}
	log.Printf("✓ %d topics created", len(topics))

	replies, err := createReplies(db, users, topics)
	if err != nil {
		return fmt.Errorf("failed to create replies: %w", err)
	}
	log.Printf("✓ %d replies created", len(replies))

	if err := createVotes(db, users, replies); err != nil {
		return fmt.Errorf("failed to create votes: %w", err)
	}

	if err := createMessages(db, users); err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE votes, replies, topics, messages, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func generateRandomName() (string, string) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	first := firstNames[r.Intn(len(firstNames))]
	last := lastNames[r.Intn(len(lastNames))]
	return first, last
}

func generateUsername(first, last string) string {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	formats := []string{"%s%s", "%s_%s", "%s%d", "%s_%d"}
	format := formats[r.Intn(len(formats))]

	switch format {
	case "%s%d", "%s_%d":
		return strings.ToLower(fmt.Sprintf(format, first, r.Intn(1000)))
	default:
		return strings.ToLower(fmt.Sprintf(format, first, last))
	}
}

func generateSentence() string {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	adj := adjectives[r.Intn(len(adjectives))]
	noun := nouns[r.Intn(len(nouns))]
	verb := verbs[r.Intn(len(verbs))]

	templates := []string{
		"Just %s an %s %s.",
		"The %s %s was %s.",
		"I %s this %s %s!",
		"What an %s %s to %s.",
		"Time to %s the %s %s.",
	}

	template := templates[r.Intn(len(templates))]
	return fmt.Sprintf(template, verb, adj, noun)
}

func generateParagraph(sentences int) string {
	var sb strings.Builder
	for i := 0; i < sentences; i++ {
		sb.WriteString(generateSentence())
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Always include a known admin and customer for manual testing
	baseUsers := []models.User{
		{Username: "admin", Password: string(hashedPassword), Role: models.RoleAdmin},
		{Username: "test", Password: string(hashedPassword), Role: models.RoleCustomer},
	}
	for _, u := range baseUsers {
		if err := db.Where("username = ?", u.Username).FirstOrCreate(&u).Error; err == nil {
			users = append(users, u)
		}
	}

	for i := len(users); i < count; i++ {
		first, last := generateRandomName()
		username := generateUsername(first, last)

		// Ensure uniqueness roughly
		username = fmt.Sprintf("%s%d", username, i)

		user := models.User{
			Username: username,
			Password: string(hashedPassword),
			Role:     models.RoleCustomer,
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createTopics(db *gorm.DB, users []models.User, categories []models.Category, count int) ([]models.Topic, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	topics := make([]models.Topic, 0, count)

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		category := categories[r.Intn(len(categories))]
		if category.IsPrivate && !user.IsAdmin() {
			category = categories[0]
		}

		topic := models.Topic{
			Title:      strings.TrimSuffix(generateSentence(), "."),
			Body:       generateParagraph(2 + r.Intn(3)),
			CategoryID: category.ID,
			UserID:     user.ID,
			IsPrivate:  category.IsPrivate,
			CreatedAt:  time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := db.Create(&topic).Error; err != nil {
			log.Printf("Failed to create topic: %v", err)
			continue
		}
		topics = append(topics, topic)
	}

	return topics, nil
}

func createReplies(db *gorm.DB, users []models.User, topics []models.Topic) ([]models.Reply, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	replies := make([]models.Reply, 0, len(topics)*3)

	for _, topic := range topics {
		for i := 0; i < r.Intn(6); i++ {
			user := users[r.Intn(len(users))]
			reply := models.Reply{
				Content:   generateSentence(),
				TopicID:   topic.ID,
				UserID:    user.ID,
				CreatedAt: topic.CreatedAt.Add(time.Duration(1+r.Intn(48)) * time.Hour),
			}
			if err := db.Create(&reply).Error; err != nil {
				log.Printf("Failed to create reply: %v", err)
				continue
			}
			replies = append(replies, reply)
		}
	}

	return replies, nil
}

func createVotes(db *gorm.DB, users []models.User, replies []models.Reply) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	count := 0

	for _, reply := range replies {
		for _, user := range users {
			if r.Intn(4) != 0 {
				continue
			}
			value := models.VoteUp
			if r.Intn(3) == 0 {
				value = models.VoteDown
			}
			vote := models.Vote{ReplyID: reply.ID, UserID: user.ID, Value: value}
			if err := db.Create(&vote).Error; err != nil {
				continue
			}
			count++
		}
	}

	log.Printf("✓ %d votes created", count)
	return nil
}

func createMessages(db *gorm.DB, users []models.User) error {
	if len(users) < 2 {
		return nil
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	count := 0

	for i := 0; i < len(users)*2; i++ {
		sender := users[r.Intn(len(users))]
		receiver := users[r.Intn(len(users))]
		if sender.ID == receiver.ID {
			continue
		}
		msg := models.Message{
			Content:    generateSentence(),
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
		}
		if err := db.Create(&msg).Error; err != nil {
			continue
		}
		count++
	}

	log.Printf("✓ %d messages created", count)
	return nil
}
