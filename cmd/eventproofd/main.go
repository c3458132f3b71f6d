// Command eventproofd is a small CLI exposing the relayer end to end:
// watch an execution chain for watched-address events, build an
// EventProof for a single receipt on demand, or verify an EventProof
// produced elsewhere.
//
// Grounded on cmd/eth2030/main.go's "resolve config, validate, run,
// wait for signal" shape, restructured into urfave/cli/v2 subcommands
// per SPEC_FULL.md Part D (the wider pack's convention for a tool with
// genuinely distinct operations, rather than one flat flag set).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/Liquid369/transaction-receipt-relayer/collaborators"
	"github.com/Liquid369/transaction-receipt-relayer/domain"
	"github.com/Liquid369/transaction-receipt-relayer/eventproof"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/relayer"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
	"github.com/Liquid369/transaction-receipt-relayer/trie"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := &cli.App{
		Name:    "eventproofd",
		Usage:   "relay and verify Ethereum receipt inclusion proofs",
		Version: fmt.Sprintf("%s (commit %s)", version, commit),
		Commands: []*cli.Command{
			watchCommand(),
			proveCommand(),
			verifyCommand(),
		},
	}

	if err := app.Run(args); err != nil {
		log.Printf("eventproofd: %v", err)
		return 1
	}
	return 0
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "poll an execution RPC endpoint and submit EventProofs for watched addresses",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "path to a relayer config YAML file"},
			&cli.StringSliceFlag{Name: "address", Usage: "watched address (0x...), may be repeated"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := relayer.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			log.Printf("eventproofd watch: execution_rpc=%s chain_id=%d database=%s", cfg.ExecutionRPC, cfg.ChainID, cfg.Database)

			db, err := relayer.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			addresses := collaborators.NewMemoryWatchedAddressRegistry()
			for _, a := range c.StringSlice("address") {
				if err := addresses.Add(cfg.ChainID, primitives.HexToH160(a)); err != nil {
					return err
				}
			}

			headers := collaborators.NewMemoryHeaderStore()
			metrics := relayer.NewMetrics(prometheus.DefaultRegisterer)

			watcher, err := relayer.NewWatcher(*cfg, db, addresses, db, headers, nil, metrics)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				log.Printf("eventproofd watch: received signal %v, shutting down", sig)
				cancel()
			}()

			watcher.Run(ctx)
			return nil
		},
	}
}

func proveCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "build an EventProof for one transaction and print it as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rpc", Required: true, Usage: "execution JSON-RPC endpoint"},
			&cli.Uint64Flag{Name: "block", Required: true, Usage: "block number"},
			&cli.IntFlag{Name: "index", Required: true, Usage: "transaction index within the block"},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			client, err := ethclient.Dial(c.String("rpc"))
			if err != nil {
				return err
			}

			blockNum := new(big.Int).SetUint64(c.Uint64("block"))
			header, err := client.HeaderByNumber(ctx, blockNum)
			if err != nil {
				return err
			}
			block, err := client.BlockByNumber(ctx, blockNum)
			if err != nil {
				return err
			}

			txs := block.Transactions()
			index := c.Int("index")
			if index < 0 || index >= len(txs) {
				return fmt.Errorf("eventproofd prove: index %d out of range (block has %d transactions)", index, len(txs))
			}

			t := trie.New()
			var targetReceipt domain.TransactionReceipt
			var targetHash primitives.H256
			for i, tx := range txs {
				gethReceipt, err := client.TransactionReceipt(ctx, tx.Hash())
				if err != nil {
					return err
				}
				receipt, err := relayer.ConvertReceipt(gethReceipt)
				if err != nil {
					return err
				}
				key := rlp.EncodeToBytes(rlp.Uint64(i))
				value := rlp.EncodeToBytes(receipt)
				t.Insert(key, value)
				if i == index {
					targetReceipt = receipt
					targetHash = receipt.Hash()
				}
			}

			proof, err := t.Prove(rlp.EncodeToBytes(rlp.Uint64(index)))
			if err != nil {
				return err
			}

			domainHeader := relayer.ConvertHeader(header)
			ep := &eventproof.EventProof{
				BlockHeader:            domainHeader,
				BlockHash:              domainHeader.Hash(),
				TransactionReceipt:     targetReceipt,
				TransactionReceiptHash: targetHash,
				MerkleProofOfReceipt:   proof,
			}
			if err := ep.Validate(); err != nil {
				return fmt.Errorf("eventproofd prove: built an invalid proof: %w", err)
			}

			enc, err := json.MarshalIndent(ep, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "validate an EventProof JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "proof", Required: true, Usage: "path to an EventProof JSON file"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("proof"))
			if err != nil {
				return err
			}
			var ep eventproof.EventProof
			if err := json.Unmarshal(data, &ep); err != nil {
				return fmt.Errorf("eventproofd verify: parsing proof: %w", err)
			}
			if err := ep.Validate(); err != nil {
				fmt.Printf("invalid: %v\n", err)
				return err
			}
			fmt.Println("valid")
			return nil
		},
	}
}
