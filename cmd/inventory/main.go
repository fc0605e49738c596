package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/db"
	"github.com/macph/inventory/internal/dt"
	"github.com/macph/inventory/internal/export"
	"github.com/macph/inventory/internal/model"
	"github.com/macph/inventory/internal/quantity"
	"github.com/macph/inventory/internal/store"
	"github.com/macph/inventory/internal/usage"
)

const usageText = `Usage: inventory <command> [flags]

Commands:
  init       create the database with default units and a user account
  units      list the available units of measurement
  add-item   start tracking a new item
  record     report the current quantity of an item
  count      report quantities for several items at once
  list       show tracked items with usage rates and expected end dates
  export     write the inventory as JSON to stdout

Run 'inventory <command> -help' for the flags of a command.
`

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit(ctx, os.Args[2:])
	case "units":
		err = cmdUnits(ctx, os.Args[2:])
	case "add-item":
		err = cmdAddItem(ctx, os.Args[2:])
	case "record":
		err = cmdRecord(ctx, os.Args[2:])
	case "count":
		err = cmdCount(ctx, os.Args[2:])
	case "list":
		err = cmdList(ctx, os.Args[2:])
	case "export":
		err = cmdExport(ctx, os.Args[2:])
	case "help", "-h", "-help", "--help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usageText)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// commonFlags registers the flags every command shares.
func commonFlags(fs *flag.FlagSet) (dbPath, username *string) {
	dbPath = new(string)
	fs.StringVar(dbPath, "db", "inventory.sqlite3", "")
	fs.StringVar(dbPath, "d", "inventory.sqlite3", "")

	username = new(string)
	fs.StringVar(username, "user", defaultUsername(), "")
	fs.StringVar(username, "u", defaultUsername(), "")
	return dbPath, username
}

func defaultUsername() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "user"
}

// openDatabase opens an existing database and applies any pending migrations.
func openDatabase(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database %s does not exist, run 'inventory init' first", path)
	}

	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return database, nil
}

func resolveUser(ctx context.Context, database *sql.DB, username string) (*model.User, error) {
	user, err := store.GetUserByUsername(ctx, database, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no such user: %s", username)
	}
	return user, nil
}

func cmdInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath, username := commonFlags(fs)

	var password string
	fs.StringVar(&password, "password", "", "")
	fs.StringVar(&password, "p", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventory init [flags]

Flags:
  -d, -db <path>        SQLite database path (default: inventory.sqlite3)
  -u, -user <name>      account username (default: $USER)
  -p, -password <pass>  account password (default: generated)
  -h, -help             show this help and exit
`)
	}
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		return fmt.Errorf("database %s already exists", *dbPath)
	}

	generated := password == ""
	if generated {
		var err error
		password, err = generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		os.Remove(*dbPath)
		return fmt.Errorf("migrating database: %w", err)
	}
	if err := store.Seed(ctx, database); err != nil {
		os.Remove(*dbPath)
		return fmt.Errorf("seeding database: %w", err)
	}
	if _, err := store.CreateUser(ctx, database, *username, password); err != nil {
		os.Remove(*dbPath)
		return fmt.Errorf("creating user: %w", err)
	}

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println()
	fmt.Println("Account created:")
	fmt.Printf("  Username: %s\n", *username)
	if generated {
		fmt.Printf("  Password: %s\n", password)
		fmt.Println()
		fmt.Println("Save this password — it cannot be recovered.")
	}
	return nil
}

func cmdUnits(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("units", flag.ExitOnError)
	dbPath, _ := commonFlags(fs)

	var measureName string
	fs.StringVar(&measureName, "measure", "", "")
	fs.StringVar(&measureName, "m", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventory units [flags]

Flags:
  -d, -db <path>        SQLite database path (default: inventory.sqlite3)
  -m, -measure <name>   filter by measure: generic, length, mass or volume
  -h, -help             show this help and exit
`)
	}
	fs.Parse(args)

	var measure *model.Measure
	if measureName != "" {
		m, err := model.ParseMeasure(measureName)
		if err != nil {
			return err
		}
		measure = &m
	}

	database, err := openDatabase(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	units, err := store.ListUnits(ctx, database, measure)
	if err != nil {
		return err
	}

	for _, u := range units {
		fmt.Printf("%-10s %-10s ×%s\n", u.Symbol, u.Measure, quantity.Format(u.Convert, false))
	}
	return nil
}

func cmdAddItem(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-item", flag.ExitOnError)
	dbPath, username := commonFlags(fs)

	var name, unitSymbol, minimum, initial string
	fs.StringVar(&name, "name", "", "")
	fs.StringVar(&name, "n", "", "")
	fs.StringVar(&unitSymbol, "unit", model.NoSymbol, "")
	fs.StringVar(&minimum, "min", "0", "")
	fs.StringVar(&initial, "quantity", "", "")
	fs.StringVar(&initial, "q", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventory add-item [flags]

Flags:
  -d, -db <path>        SQLite database path (default: inventory.sqlite3)
  -u, -user <name>      account username (default: $USER)
  -n, -name <name>      item name (required)
  -unit <symbol>        unit of measurement (default: none)
  -min <quantity>       minimum quantity to keep, in the item's unit (default: 0)
  -q, -quantity <qty>   initial quantity on hand, in the item's unit
  -h, -help             show this help and exit
`)
	}
	fs.Parse(args)

	database, err := openDatabase(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	// Without a name, suggest common items to start with.
	if name == "" {
		presets, err := store.ListPresets(ctx, database)
		if err != nil {
			return err
		}
		fmt.Println("Item name is required (-name). Some suggestions:")
		for _, p := range presets {
			if p.Measure != nil {
				fmt.Printf("  %-12s (%s)\n", p.Name, p.Measure)
			} else {
				fmt.Printf("  %s\n", p.Name)
			}
		}
		return nil
	}

	user, err := resolveUser(ctx, database, *username)
	if err != nil {
		return err
	}

	unit, err := store.GetUnitBySymbol(ctx, database, unitSymbol)
	if err != nil {
		return err
	}
	if unit == nil {
		return fmt.Errorf("no such unit: %s", unitSymbol)
	}

	min, err := decimal.NewFromString(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum quantity: %s", minimum)
	}

	item, err := store.CreateItem(ctx, database, user.ID, name, unit.ID, quantity.ToBase(min, *unit))
	if err != nil {
		return err
	}

	if initial != "" {
		qty, err := decimal.NewFromString(initial)
		if err != nil {
			return fmt.Errorf("invalid quantity: %s", initial)
		}
		if _, err := store.AddRecord(ctx, database, item.ID, quantity.ToBase(qty, *unit), ""); err != nil {
			return err
		}
	}

	fmt.Printf("Tracking %s (%s)\n", item.Name, item.Ident)
	return nil
}

func cmdRecord(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	dbPath, username := commonFlags(fs)

	var ident, qtyArg, unitSymbol, note string
	fs.StringVar(&ident, "item", "", "")
	fs.StringVar(&ident, "i", "", "")
	fs.StringVar(&qtyArg, "quantity", "", "")
	fs.StringVar(&qtyArg, "q", "", "")
	fs.StringVar(&unitSymbol, "unit", "", "")
	fs.StringVar(&note, "note", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventory record [flags]

Flags:
  -d, -db <path>        SQLite database path (default: inventory.sqlite3)
  -u, -user <name>      account username (default: $USER)
  -i, -item <ident>     item ident (required)
  -q, -quantity <qty>   current quantity on hand (required)
  -unit <symbol>        unit the quantity is given in (default: the item's unit)
  -note <text>          note to attach to the record
  -h, -help             show this help and exit
`)
	}
	fs.Parse(args)

	if ident == "" || qtyArg == "" {
		return fmt.Errorf("both -item and -quantity are required")
	}

	qty, err := decimal.NewFromString(qtyArg)
	if err != nil {
		return fmt.Errorf("invalid quantity: %s", qtyArg)
	}
	if qty.IsNegative() {
		return fmt.Errorf("quantity cannot be negative")
	}

	database, err := openDatabase(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := resolveUser(ctx, database, *username)
	if err != nil {
		return err
	}

	item, err := store.GetItemByIdent(ctx, database, user.ID, ident)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("no such item: %s", ident)
	}

	unit := item.Unit
	if unitSymbol != "" {
		unit, err = store.GetUnitBySymbol(ctx, database, unitSymbol)
		if err != nil {
			return err
		}
		if unit == nil {
			return fmt.Errorf("no such unit: %s", unitSymbol)
		}
		if err := quantity.CheckCompatible(*item.Unit, *unit); err != nil {
			return err
		}
	}

	record, err := store.AddRecord(ctx, database, item.ID, quantity.ToBase(qty, *unit), note)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", item.Name, quantity.Print(record.Quantity, *item.Unit))
	return nil
}

func cmdCount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	dbPath, username := commonFlags(fs)

	var note string
	fs.StringVar(&note, "note", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventory count [flags] <ident>=<quantity> ...

Reports quantities for several items in one submission. Each quantity is
given in the item's own unit.

Flags:
  -d, -db <path>    SQLite database path (default: inventory.sqlite3)
  -u, -user <name>  account username (default: $USER)
  -note <text>      note attached to every new record
  -h, -help         show this help and exit
`)
	}
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("no quantities given, expected <ident>=<quantity> arguments")
	}

	database, err := openDatabase(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := resolveUser(ctx, database, *username)
	if err != nil {
		return err
	}

	items, err := store.ListItems(ctx, database, user.ID)
	if err != nil {
		return err
	}
	byIdent := make(map[string]model.Item, len(items))
	for _, item := range items {
		byIdent[item.Ident] = item
	}

	sub := store.CountSubmission{
		Values: make(map[string]decimal.Decimal, fs.NArg()),
		Note:   note,
	}
	for _, arg := range fs.Args() {
		ident, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid argument %q, expected <ident>=<quantity>", arg)
		}
		item, ok := byIdent[ident]
		if !ok {
			return fmt.Errorf("no such item: %s", ident)
		}
		qty, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("invalid quantity for %s: %s", ident, value)
		}
		sub.Values[ident] = quantity.ToBase(qty, *item.Unit)
	}

	records, err := store.SubmitCount(ctx, database, user.ID, sub)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %d items\n", len(records))
	return nil
}

func cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dbPath, username := commonFlags(fs)

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventory list [flags]

Flags:
  -d, -db <path>    SQLite database path (default: inventory.sqlite3)
  -u, -user <name>  account username (default: $USER)
  -h, -help         show this help and exit
`)
	}
	fs.Parse(args)

	database, err := openDatabase(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := resolveUser(ctx, database, *username)
	if err != nil {
		return err
	}

	items, err := store.ListItems(ctx, database, user.ID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items tracked yet.")
		return nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	rates, err := store.AverageUse(ctx, database, ids)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, item := range items {
		fmt.Println(formatItemLine(ctx, database, item, rates, now))
	}
	return nil
}

// formatItemLine renders one row of the list output: current quantity, a low
// stock marker, the average daily use and the projected end of stock.
func formatItemLine(ctx context.Context, database *sql.DB, item model.Item, rates map[int64]decimal.Decimal, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s", item.Name)

	latest, err := store.LatestRecord(ctx, database, item.ID)
	if err != nil || latest == nil {
		b.WriteString("  no records yet")
		return b.String()
	}

	fmt.Fprintf(&b, "  %s", quantity.Print(latest.Quantity, *item.Unit))
	if latest.Quantity.Cmp(item.Minimum) < 0 {
		b.WriteString(" (low)")
	}

	if rate, ok := rates[item.ID]; ok {
		fmt.Fprintf(&b, "  %s/day", quantity.Print(rate, *item.Unit))

		obs := usage.Observation{Quantity: latest.Quantity, Added: latest.Added}
		if end, ok := usage.ExpectedEnd(obs, rate); ok {
			fmt.Fprintf(&b, "  runs out %s", dt.Natural(end, now))
		}
	}

	fmt.Fprintf(&b, "  updated %s", dt.Since(latest.Added, now))
	return b.String()
}

func cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath, username := commonFlags(fs)

	var ident string
	fs.StringVar(&ident, "item", "", "")
	fs.StringVar(&ident, "i", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventory export [flags]

Flags:
  -d, -db <path>     SQLite database path (default: inventory.sqlite3)
  -u, -user <name>   account username (default: $USER)
  -i, -item <ident>  export a single item (default: all items)
  -h, -help          show this help and exit
`)
	}
	fs.Parse(args)

	database, err := openDatabase(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := resolveUser(ctx, database, *username)
	if err != nil {
		return err
	}

	projection, err := export.Build(ctx, database, user.ID, ident)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(projection)
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
