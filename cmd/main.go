// Command helperkit exposes the helper toolkit on the command line.
package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/manx98/helperkit/issuemgr"
	"github.com/manx98/helperkit/logger"
	"github.com/manx98/helperkit/store"
	"github.com/manx98/helperkit/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var appCmd = &cobra.Command{
	Use:               "helperkit",
	Short:             "secure random values and format sniffing",
	SilenceUsage:      true,
	PersistentPreRunE: initLogger,
}
var logFile *string
var logLevel *string
var logJSON *bool
var jsonOutput *bool

var uuidCmd = &cobra.Command{
	Use:   "uuid",
	Short: "print random version 4 UUIDs",
	Args:  cobra.NoArgs,
	RunE:  printUUIDs,
}
var uuidCount *int

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "print a random numeric code with exactly --length digits",
	Args:  cobra.NoArgs,
	RunE:  printCode,
}
var codeLength *int

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "print a random numeric identifier with exactly --length digits",
	Args:  cobra.NoArgs,
	RunE:  printNumericID,
}
var idLength *int

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "print a random alphanumeric password",
	Args:  cobra.NoArgs,
	RunE:  printPassword,
}
var passwordLength *int

var sniffCmd = &cobra.Command{
	Use:   "sniff [file]",
	Short: "report whether the input looks like PHP serialized data, gzip input is inflated first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  sniff,
}
var sniffStrict *bool

var gzipCmd = &cobra.Command{
	Use:   "gzip [file]",
	Short: "report whether the input starts with the gzip magic bytes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  checkGzip,
}
var gzipDecompress *bool

var issueCmd = &cobra.Command{
	Use:       "issue <uuid|code|id>",
	Short:     "generate a value that was never issued before and record it",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(issuemgr.KindUUID), string(issuemgr.KindCode), string(issuemgr.KindID)},
	RunE:      issue,
}
var issueLength *int
var creator *string
var issueDesc *string

var lookupCmd = &cobra.Command{
	Use:   "lookup <uuid|code|id> <value>",
	Short: "show the ledger record of an issued value",
	Args:  cobra.ExactArgs(2),
	RunE:  lookup,
}

var listCmd = &cobra.Command{
	Use:   "list <uuid|code|id>",
	Short: "list issued values of a kind",
	Args:  cobra.ExactArgs(1),
	RunE:  list,
}

var dbFile *string

func init() {
	logFile = appCmd.PersistentFlags().String("log_file", "", "Also write logs to this file, rotated by size")
	logLevel = appCmd.PersistentFlags().String("log_level", "warn", "Log level: debug, info, warn, error")
	logJSON = appCmd.PersistentFlags().Bool("log_json", false, "Write stderr logs as JSON")
	jsonOutput = appCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	appCmd.AddCommand(uuidCmd)
	uuidCount = uuidCmd.Flags().IntP("count", "n", 1, "How many UUIDs to print")
	appCmd.AddCommand(codeCmd)
	codeLength = codeCmd.Flags().IntP("length", "l", utils.DefaultNumericCodeLength, "Number of digits")
	appCmd.AddCommand(idCmd)
	idLength = idCmd.Flags().IntP("length", "l", utils.DefaultNumericIDLength, "Number of digits")
	appCmd.AddCommand(passwordCmd)
	passwordLength = passwordCmd.Flags().IntP("length", "l", utils.DefaultPasswordLength, "Number of characters")
	appCmd.AddCommand(sniffCmd)
	sniffStrict = sniffCmd.Flags().BoolP("strict", "s", true, "Require the terminator to be the last character")
	appCmd.AddCommand(gzipCmd)
	gzipDecompress = gzipCmd.Flags().BoolP("decompress", "d", false, "Write the decompressed payload to stdout")

	for _, c := range []*cobra.Command{issueCmd, lookupCmd, listCmd} {
		appCmd.AddCommand(c)
	}
	dbFile = appCmd.PersistentFlags().String("db", "helperkit.db", "Ledger of issued values used by issue, lookup and list")
	issueLength = issueCmd.Flags().IntP("length", "l", 0, "Number of digits for code and id, 0 uses the default")
	creator = issueCmd.Flags().StringP("creator", "c", "", "Who requested the value")
	issueDesc = issueCmd.Flags().StringP("description", "m", "", "Free form note stored with the value")
}

func main() {
	defer logger.Sync()
	if err := appCmd.Execute(); err != nil {
		logger.Error("run cmd occur error", zap.Error(err))
		os.Exit(1)
	}
}

func initLogger(cmd *cobra.Command, args []string) error {
	return logger.Init(logger.Options{
		File:       *logFile,
		Level:      *logLevel,
		JSON:       *logJSON,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	})
}

func output(cmd *cobra.Command, value any) error {
	w := cmd.OutOrStdout()
	if *jsonOutput {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		return enc.Encode(value)
	}
	if records, ok := value.([]*issuemgr.Record); ok {
		for _, r := range records {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", r.Seq, r.Value, r.CreatorName); err != nil {
				return err
			}
		}
		return nil
	}
	if r, ok := value.(*issuemgr.Record); ok {
		value = r.Value
	}
	_, err := fmt.Fprintln(w, value)
	return err
}

func printUUIDs(cmd *cobra.Command, args []string) error {
	if *uuidCount < 1 {
		return fmt.Errorf("count %d: %w", *uuidCount, utils.ErrInvalidArgument)
	}
	ids := make([]string, 0, *uuidCount)
	for i := 0; i < *uuidCount; i++ {
		ids = append(ids, utils.NewUUIDv4())
	}
	if *jsonOutput {
		return output(cmd, ids)
	}
	for _, id := range ids {
		if err := output(cmd, id); err != nil {
			return err
		}
	}
	return nil
}

func printCode(cmd *cobra.Command, args []string) error {
	code, err := utils.NumericCode(*codeLength)
	if err != nil {
		return err
	}
	return output(cmd, code)
}

func printNumericID(cmd *cobra.Command, args []string) error {
	id, err := utils.NumericID(*idLength)
	if err != nil {
		return err
	}
	return output(cmd, id)
}

func printPassword(cmd *cobra.Command, args []string) error {
	pwd, err := utils.Password(*passwordLength)
	if err != nil {
		return err
	}
	return output(cmd, pwd)
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func sniff(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	gzipped := utils.IsGzipEncoded(data)
	if data, err = utils.MaybeGunzip(data); err != nil {
		return err
	}
	logger.Debug("sniff input", zap.Int("size", len(data)), zap.Bool("gzip", gzipped), zap.Bool("strict", *sniffStrict))
	return output(cmd, utils.IsSerialized(string(data), *sniffStrict))
}

func checkGzip(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if !*gzipDecompress {
		return output(cmd, utils.IsGzipEncoded(data))
	}
	payload, err := utils.Gunzip(data)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(payload)
	return err
}

func openLedger() error {
	if err := store.Init(*dbFile); err != nil {
		return fmt.Errorf("open ledger %s: %w", *dbFile, err)
	}
	return nil
}

func issue(cmd *cobra.Command, args []string) error {
	kind, err := issuemgr.ParseKind(args[0])
	if err != nil {
		return err
	}
	if err = openLedger(); err != nil {
		return err
	}
	defer store.Close()
	record, err := issuemgr.Issue(kind, *issueLength, *creator, *issueDesc)
	if err != nil {
		return err
	}
	if err = store.Sync(); err != nil {
		return err
	}
	return output(cmd, record)
}

func lookup(cmd *cobra.Command, args []string) error {
	kind, err := issuemgr.ParseKind(args[0])
	if err != nil {
		return err
	}
	if err = openLedger(); err != nil {
		return err
	}
	defer store.Close()
	record, err := issuemgr.Get(kind, args[1])
	if err != nil {
		return fmt.Errorf("lookup %s %s: %w", kind, args[1], err)
	}
	return output(cmd, []*issuemgr.Record{record})
}

func list(cmd *cobra.Command, args []string) error {
	kind, err := issuemgr.ParseKind(args[0])
	if err != nil {
		return err
	}
	if err = openLedger(); err != nil {
		return err
	}
	defer store.Close()
	records, err := issuemgr.List(kind)
	if err != nil {
		return err
	}
	return output(cmd, records)
}
