// Package relayer implements the "external collaborator" sidecar
// spec.md §1/§6.2 deliberately places out of the pure core: a
// poll-based watcher that pulls blocks and receipts from an execution
// RPC endpoint, pre-filters them against a watched-address registry,
// builds a trie over each block's receipts, and emits an EventProof
// for anything worth proving.
//
// Grounded on original_source/relayer/src/{config,bloom_processor,db}.rs
// (the Rust relayer the distilled spec.md core was lifted out of) and
// on wyf-ACCEPT-eth2030/pkg/cmd/eth2030/main.go's logging/config idiom.
package relayer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the relayer's runtime configuration, grounded on
// original_source/relayer/src/config.rs's Config struct (there
// populated from both a config file and CLI flags via clap; here from
// a single YAML file, per SPEC_FULL.md Part B's configuration choice).
type Config struct {
	// ExecutionRPC is the HTTP JSON-RPC endpoint of an execution client,
	// dialed with ethclient.Dial (original_source's Provider<Http>).
	ExecutionRPC string `yaml:"execution_rpc"`

	// ChainID identifies the watched chain to the collaborator
	// interfaces (spec.md §6.2 keys every collaborator lookup by it).
	ChainID uint64 `yaml:"chain_id"`

	// Database is the goleveldb directory backing the processed-block
	// cursor and the processed-receipt set (relayer.DB).
	Database string `yaml:"database"`

	// PollIntervalSeconds is how long the watcher sleeps between
	// iterations that find no new finalized blocks to process,
	// mirroring original_source's SLEEP_DURATION.
	PollIntervalSeconds uint64 `yaml:"poll_interval_seconds"`

	// BlocksPerIteration bounds how many blocks one iteration fetches,
	// grounded on config.rs's bloom_processor_limit_per_block.
	BlocksPerIteration uint64 `yaml:"blocks_per_iteration"`

	// BlocksToStore bounds how far back the watcher backfills from the
	// chain head the first time it runs against an empty database,
	// mirroring client.rs's Client::blocks_to_store /
	// config.rs's blocks_to_store.
	BlocksToStore uint64 `yaml:"blocks_to_store"`
}

// DefaultPollIntervalSeconds and DefaultBlocksPerIteration mirror
// original_source's consts.rs DEFAULT_LIMIT_PROCESSING_BLOCKS_PER_ITERATION
// and SLEEP_DURATION. DefaultBlocksToStore mirrors consts.rs's
// BLOCK_AMOUNT_TO_STORE (the constant itself falls outside the filtered
// original_source tree; this picks a conservative 128-block backfill,
// four default-sized iterations, for a first run).
const (
	DefaultPollIntervalSeconds = 12
	DefaultBlocksPerIteration  = 32
	DefaultBlocksToStore       = 128
)

// LoadConfig reads and parses a YAML config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("relayer: reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("relayer: parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if c.BlocksPerIteration == 0 {
		c.BlocksPerIteration = DefaultBlocksPerIteration
	}
	if c.BlocksToStore == 0 {
		c.BlocksToStore = DefaultBlocksToStore
	}
}

// Validate reports the first missing required field, mirroring the
// eth2030 cmd's "validate before doing any work" shape.
func (c *Config) Validate() error {
	if c.ExecutionRPC == "" {
		return fmt.Errorf("relayer: execution_rpc is required")
	}
	if c.ChainID == 0 {
		return fmt.Errorf("relayer: chain_id is required")
	}
	if c.Database == "" {
		return fmt.Errorf("relayer: database is required")
	}
	return nil
}
