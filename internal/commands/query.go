package commands

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"access-log-analyzer/internal/config"
	"access-log-analyzer/internal/database"
)

// NewQueryCommand creates the 'query' subcommand for executing SQL
// queries against the stored records.
// Usage: access-log-analyzer query [--db requests.db] [--sql "SELECT ..."]
func NewQueryCommand() *cobra.Command {
	var dbFile string
	var sqlQuery string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Execute SQL queries against the request database",
		Long: `Execute SQL queries against the SQLite database produced by the load
command.

Only read-only queries are allowed: write operations (INSERT, UPDATE,
DELETE, CREATE, DROP, ...) are blocked.

Common example queries:
  # Requests per method
  SELECT method, COUNT(*) FROM requests GROUP BY method;

  # Error responses per day
  SELECT date, COUNT(*) FROM requests WHERE status_code >= 400 GROUP BY date ORDER BY date;

  # Heaviest paths by bytes transferred
  SELECT path, SUM(bytes_sent) AS total FROM requests GROUP BY path ORDER BY total DESC LIMIT 10;

Interactive mode:
  access-log-analyzer query --db requests.db

Direct query:
  access-log-analyzer query --db requests.db --sql "SELECT COUNT(*) FROM requests"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryCommand(dbFile, sqlQuery)
		},
	}

	cmd.Flags().StringVarP(&dbFile, "db", "d", config.DefaultDatabaseFile, config.DatabaseFileDescription)
	cmd.Flags().StringVarP(&sqlQuery, "sql", "s", "", "SQL query to execute (if not provided, enters interactive mode)")

	return cmd
}

// runQueryCommand executes a single query or starts the interactive loop
func runQueryCommand(dbFile, sqlQuery string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s\nPlease run 'load' first", dbFile)
	}

	db, err := database.Initialize(dbFile)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if sqlQuery != "" {
		return executeSingleQuery(db, sqlQuery)
	}

	return enterInteractiveMode(db, dbFile)
}

// executeSingleQuery runs one SQL query and displays the results
func executeSingleQuery(db database.DB, query string) error {
	if err := ValidateReadOnlyQuery(query); err != nil {
		return fmt.Errorf("query validation failed: %w", err)
	}

	results, err := database.ExecuteQuery(db, query)
	if err != nil {
		return fmt.Errorf("query execution failed: %w", err)
	}

	displayResults(results)
	return nil
}

// enterInteractiveMode provides an interactive SQL prompt
func enterInteractiveMode(db database.DB, dbFile string) error {
	fmt.Printf("Connected to database: %s\n", dbFile)
	fmt.Println("Interactive SQL query mode. Type 'exit' or 'quit' to exit.")
	fmt.Println("Only read-only queries (SELECT, WITH, EXPLAIN) are allowed.")
	fmt.Println("Example queries:")
	fmt.Println("  SELECT method, COUNT(*) FROM requests GROUP BY method;")
	fmt.Println("  SELECT COUNT(DISTINCT client) AS unique_clients FROM requests;")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("sql> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			break
		}
		if input == "" {
			continue
		}

		if err := ValidateReadOnlyQuery(input); err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}

		results, err := database.ExecuteQuery(db, input)
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}

		displayResults(results)
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// displayResults formats and prints query results as a fixed-width table.
// Columns are sorted by name so output is deterministic.
func displayResults(results []map[string]interface{}) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	columns := make([]string, 0, len(results[0]))
	for column := range results[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	cells := make([]string, len(columns))
	for i, column := range columns {
		cells[i] = fmt.Sprintf("%-15s", column)
	}
	fmt.Println(strings.Join(cells, " | "))

	for i := range cells {
		cells[i] = strings.Repeat("-", 15)
	}
	fmt.Println(strings.Join(cells, " | "))

	for _, row := range results {
		for i, column := range columns {
			cells[i] = fmt.Sprintf("%-15v", row[column])
		}
		fmt.Println(strings.Join(cells, " | "))
	}

	fmt.Printf("\n(%d rows)\n", len(results))
}

var (
	singleLineCommentRe = regexp.MustCompile(`--.*`)
	multiLineCommentRe  = regexp.MustCompile(`/\*.*?\*/`)
)

// allowed read-only statement prefixes
var allowedPrefixes = []string{"select", "with", "explain"}

// read-only PRAGMA statements useful for inspecting the schema
var allowedPragmas = []string{
	"pragma table_info(",
	"pragma index_list(",
	"pragma index_info(",
	"pragma schema_version",
	"pragma user_version",
	"pragma database_list",
}

// keywords that indicate a write or schema change anywhere in the query
var forbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "create", "alter",
	"truncate", "replace", "merge", "upsert",
	"attach", "detach", "vacuum", "reindex",
	"begin", "commit", "rollback", "savepoint",
}

// ValidateReadOnlyQuery ensures a SQL query is read-only and safe to run
// against the request database
func ValidateReadOnlyQuery(query string) error {
	normalized := strings.TrimSpace(strings.ToLower(query))
	normalized = singleLineCommentRe.ReplaceAllString(normalized, "")
	normalized = multiLineCommentRe.ReplaceAllString(normalized, "")
	normalized = strings.TrimSpace(normalized)

	if normalized == "" {
		return fmt.Errorf("empty query")
	}

	allowed := false
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			allowed = true
			break
		}
	}

	if strings.HasPrefix(normalized, "pragma") {
		pragmaAllowed := false
		for _, pragma := range allowedPragmas {
			if strings.HasPrefix(normalized, pragma) {
				pragmaAllowed = true
				break
			}
		}
		if !pragmaAllowed {
			return fmt.Errorf("PRAGMA statement not allowed. Only read-only PRAGMA statements are permitted")
		}
		allowed = true
	}

	if !allowed {
		return fmt.Errorf("only read-only queries are allowed (SELECT, WITH, EXPLAIN, and read-only PRAGMA)")
	}

	// Forbidden keywords anywhere in the query, including subqueries
	for _, keyword := range forbiddenKeywords {
		keywordRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		if keywordRe.MatchString(normalized) {
			return fmt.Errorf("forbidden keyword '%s' detected. Only read-only operations are allowed", strings.ToUpper(keyword))
		}
	}

	// One statement + optional empty string after the final semicolon
	if len(strings.Split(normalized, ";")) > 2 {
		return fmt.Errorf("multiple statements not allowed. Please execute one query at a time")
	}

	return nil
}
