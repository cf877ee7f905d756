package config

import (
	"os"
	"strconv"
	"time"
)

type Mode string

const (
	ModeAPI  Mode = "api"
	ModeOpen Mode = "open"
	ModeSSR  Mode = "ssr"
)

// Path is the location of the optional YAML config file.
type Path string

type Config struct {
	Server   Server   `yaml:"server"`
	Auth     Auth     `yaml:"auth"`
	JSONRepo JSONRepo `yaml:"json_repo"`
	Uploads  Uploads  `yaml:"uploads"`
	Web      Web      `yaml:"web"`
	Log      Log      `yaml:"log"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Auth struct {
	Secret     string        `yaml:"secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
	SeedUsers  []SeedUser    `yaml:"seed_users"`
}

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type JSONRepo struct {
	// Path is empty for a purely in-memory user store.
	Path string `yaml:"path"`
}

type Uploads struct {
	Backend  string `yaml:"backend"`
	Dir      string `yaml:"dir"`
	MaxBytes int64  `yaml:"max_bytes"`
	S3       S3     `yaml:"s3"`
}

type S3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Web struct {
	StaticDir   string `yaml:"static_dir"`
	TemplateDir string `yaml:"template_dir"`
}

type Log struct {
	Production bool `yaml:"production"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Host: "localhost",
			Port: 3000,
		},
		Auth: Auth{
			Secret:     "very_secret_key_change_me",
			TokenTTL:   time.Hour,
			BcryptCost: 10,
		},
		Uploads: Uploads{
			Backend:  "disk",
			Dir:      "uploads",
			MaxBytes: 32 << 20,
		},
		Web: Web{
			StaticDir:   "web/static",
			TemplateDir: "web/tmpl",
		},
	}
}

// New builds the config from defaults, the YAML file at path (if it
// exists) and finally the environment.
func New(path Path) (*Config, error) {
	c := Default()

	if err := loadFile(string(path), c); err != nil {
		return nil, err
	}

	applyEnv(c)
	return c, nil
}

func applyEnv(c *Config) {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		c.Auth.Secret = s
	}
	if p, err := strconv.Atoi(os.Getenv("TASKBOARD_PORT")); err == nil && p > 0 {
		c.Server.Port = p
	}
}
