// The inspector dumps the mediator's BadgerDB records as a readable table.
// It opens the database read-only so it can run next to a live mediator.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Colours        bool   `envconfig:"INSPECTOR_COLOURS" default:"true"`
}

func main() {
	prefix := flag.String("prefix", "msg:", "Key prefix to scan (msg:, turn:, conv:, part:, typing:)")
	limit := flag.Int("limit", 100, "Maximum number of rows")
	flag.Parse()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := openDB(cfg.BadgerFilepath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	header := fmt.Sprintf(" Scanning %q in %s ", *prefix, cfg.BadgerFilepath)
	if cfg.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		rows := 0
		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			if rows == *limit {
				break
			}
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append([]string{key, kindOf(key), renderValue(key, v)})
				return nil
			})
			if err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func kindOf(key string) string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		return "MESSAGE"
	case strings.HasPrefix(key, "turn:"):
		return "TURN"
	case strings.HasPrefix(key, "conv:"):
		return "CONVERSATION"
	case strings.HasPrefix(key, "part:"):
		return "PARTICIPANT"
	case strings.HasPrefix(key, "typing:"):
		return "TYPING"
	}
	return "UNKNOWN"
}

// renderValue decodes the protobuf Struct payload into "field=value" pairs.
// Typing entries carry no payload worth showing.
func renderValue(key string, v []byte) string {
	if strings.HasPrefix(key, "typing:") {
		return "present"
	}

	var s structpb.Struct
	if err := proto.Unmarshal(v, &s); err != nil {
		return fmt.Sprintf("Error: unmarshal failed (%v)", err)
	}

	fields := s.AsMap()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
