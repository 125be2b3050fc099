package config

import (
	"encoding/json"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultConfigFilename   = "config.json"
	DefaultLoggingFilename  = "mdhash"
	DefaultLogLevel         = "info"
	defaultLogDirname       = "logs"
	defaultAlgorithm        = "sha256"
	defaultChunkSize        = 64 * 1024
	defaultCheckpointEvery  = 64 * 1024 * 1024
	defaultCheckpointDir    = "checkpoints"
	defaultCheckpointDbType = "leveldb"
	defaultCacheSize        = 1024

	// chunk sizes are kept block aligned so checkpoints never split a block.
	blockAlign = 64
)

var (
	ErrInvalidAlgorithm = errors.New("invalid hash algorithm")
	ErrInvalidChunkSize = errors.New("chunk size must be a positive multiple of 64")
	ErrInvalidWorkers   = errors.New("workers must not be negative")
	ErrInvalidLogLevel  = errors.New("invalid log level")
)

// Algorithms lists the algorithm names accepted in Hasher.Algorithm.
var Algorithms = []string{"sha256", "md5"}

type Config struct {
	Log        *Log        `json:"log"`
	Hasher     *Hasher     `json:"hasher"`
	Checkpoint *Checkpoint `json:"checkpoint"`
}

type Log struct {
	LogDir        string `json:"log_dir"`
	LogLevel      string `json:"log_level"`
	DisableCPrint bool   `json:"disable_cprint"`
}

type Hasher struct {
	Algorithm string `json:"algorithm"`
	// Workers is the size of the file worker pool, 0 means one per CPU.
	Workers   int `json:"workers"`
	ChunkSize int `json:"chunk_size"`
	// CheckpointInterval is the number of bytes between two saved
	// snapshots of a running file hash.
	CheckpointInterval int64 `json:"checkpoint_interval"`
}

type Checkpoint struct {
	Enabled   bool   `json:"enabled"`
	Dir       string `json:"dir"`
	DBType    string `json:"db_type"`
	CacheSize int    `json:"cache_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Log:        DefaultLog(),
		Hasher:     DefaultHasher(),
		Checkpoint: DefaultCheckpoint(),
	}
}

func DefaultLog() *Log {
	return &Log{
		LogDir:        defaultLogDirname,
		LogLevel:      DefaultLogLevel,
		DisableCPrint: true,
	}
}

func DefaultHasher() *Hasher {
	return &Hasher{
		Algorithm:          defaultAlgorithm,
		Workers:            0,
		ChunkSize:          defaultChunkSize,
		CheckpointInterval: defaultCheckpointEvery,
	}
}

func DefaultCheckpoint() *Checkpoint {
	return &Checkpoint{
		Enabled:   false,
		Dir:       defaultCheckpointDir,
		DBType:    defaultCheckpointDbType,
		CacheSize: defaultCacheSize,
	}
}

func LoadConfig(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", filename)
	}
	cfg := DefaultConfig()
	if err = json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", filename)
	}
	return cfg, nil
}

// CheckConfig fills missing sections with defaults and validates values.
func CheckConfig(cfg *Config) error {
	if cfg.Log == nil {
		cfg.Log = DefaultLog()
	}
	if cfg.Hasher == nil {
		cfg.Hasher = DefaultHasher()
	}
	if cfg.Checkpoint == nil {
		cfg.Checkpoint = DefaultCheckpoint()
	}

	// Checks for log
	if cfg.Log.LogDir == "" {
		cfg.Log.LogDir = defaultLogDirname
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = DefaultLogLevel
	}
	switch cfg.Log.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.Wrap(ErrInvalidLogLevel, cfg.Log.LogLevel)
	}

	// Checks for hasher
	cfg.Hasher.Algorithm = strings.ToLower(strings.TrimSpace(cfg.Hasher.Algorithm))
	if cfg.Hasher.Algorithm == "" {
		cfg.Hasher.Algorithm = defaultAlgorithm
	}
	if !isAlgorithm(cfg.Hasher.Algorithm) {
		return errors.Wrap(ErrInvalidAlgorithm, cfg.Hasher.Algorithm)
	}
	if cfg.Hasher.Workers < 0 {
		return ErrInvalidWorkers
	}
	if cfg.Hasher.ChunkSize == 0 {
		cfg.Hasher.ChunkSize = defaultChunkSize
	}
	if cfg.Hasher.ChunkSize < 0 || cfg.Hasher.ChunkSize%blockAlign != 0 {
		return errors.Wrapf(ErrInvalidChunkSize, "got %d", cfg.Hasher.ChunkSize)
	}
	if cfg.Hasher.CheckpointInterval <= 0 {
		cfg.Hasher.CheckpointInterval = defaultCheckpointEvery
	}

	// Checks for checkpoint
	if cfg.Checkpoint.Dir == "" {
		cfg.Checkpoint.Dir = defaultCheckpointDir
	}
	if cfg.Checkpoint.DBType == "" {
		cfg.Checkpoint.DBType = defaultCheckpointDbType
	}
	if cfg.Checkpoint.CacheSize <= 0 {
		cfg.Checkpoint.CacheSize = defaultCacheSize
	}
	return nil
}

func isAlgorithm(name string) bool {
	for _, alg := range Algorithms {
		if alg == name {
			return true
		}
	}
	return false
}
