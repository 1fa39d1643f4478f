package sdk

import (
	"os"

	"github.com/classpulse/classpulse/internal/infrastructure/configs"
)

const (
	defaultMaxImageWidth = 400
	defaultImageQuality  = 70
)

// Options configures a Client. Zero values fall back to sensible defaults;
// an explicit Relay overrides RelayURL (tests inject the in-memory relay this
// way).
type Options struct {
	RelayURL          string
	TeacherPassphrase string

	AdviceBaseURL string
	AdviceAPIKey  string
	AdviceModel   string

	MaxImageWidth int
	ImageQuality  int

	Relay Relay
}

// OptionsFromConfig maps the shared config file onto client options.
func OptionsFromConfig(cfg *configs.Config) Options {
	return Options{
		RelayURL:          cfg.Relay.URL,
		TeacherPassphrase: cfg.Classroom.TeacherPassphrase,
		AdviceBaseURL:     cfg.Advice.BaseURL,
		AdviceAPIKey:      cfg.Advice.APIKey,
		AdviceModel:       cfg.Advice.Model,
		MaxImageWidth:     cfg.Classroom.MaxImageWidth,
		ImageQuality:      cfg.Classroom.ImageQuality,
	}
}

// Client is the entry point for classroom participants. It owns the relay
// connection factory and the side services sessions share.
type Client struct {
	relay         Relay
	passphrase    string
	advice        *AdviceService
	maxImageWidth int
	imageQuality  int
}

func NewClient(opts Options) *Client {
	relay := opts.Relay
	if relay == nil {
		baseURL := opts.RelayURL
		if baseURL == "" {
			baseURL = "ws://localhost:8080"
		}
		if o, ok := os.LookupEnv("CLASSPULSE_RELAY_URL"); ok {
			baseURL = o
		}
		relay = NewWebsocketRelay(baseURL)
	}

	if opts.MaxImageWidth <= 0 {
		opts.MaxImageWidth = defaultMaxImageWidth
	}
	if opts.ImageQuality <= 0 {
		opts.ImageQuality = defaultImageQuality
	}

	return &Client{
		relay:         relay,
		passphrase:    opts.TeacherPassphrase,
		advice:        NewAdviceService(opts.AdviceBaseURL, opts.AdviceAPIKey, opts.AdviceModel),
		maxImageWidth: opts.MaxImageWidth,
		imageQuality:  opts.ImageQuality,
	}
}

func (c *Client) Advice() *AdviceService {
	return c.advice
}

// JoinAsStudent attaches a new student session to a room. Anyone with the
// room key may join.
func (c *Client) JoinAsStudent(roomKey, name, group string) (*Session, error) {
	return newStudentSession(c, roomKey, name, group)
}

// JoinAsTeacher attaches a teacher session. When a passphrase is configured,
// it gates the teacher role only; it is a usability fence, not authentication.
func (c *Client) JoinAsTeacher(roomKey, name, passphrase string) (*Session, error) {
	if c.passphrase != "" && passphrase != c.passphrase {
		return nil, ErrBadPassphrase
	}
	return newTeacherSession(c, roomKey, name)
}
