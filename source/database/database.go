package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/pkg/errors"

	"github.com/ElementialCoder/fmath/source/settings"

	// SQL drivers

	_ "github.com/go-sql-driver/mysql"  // MariaDB & MySQL
	_ "github.com/lib/pq"               // Postgres
	_ "github.com/microsoft/go-mssqldb" // SQL Server
	_ "github.com/nakagami/firebirdsql" // Firebird
	_ "github.com/sijms/go-ora"         // Oracle
	_ "modernc.org/sqlite"              // SQLite
)

// List of SQL drivers for when I want to import more: https://zchee.github.io/golang-wiki/SQLDrivers/

var (
	drivers = map[string]string{"Firebird SQL": "firebirdsql", "MariaDB": "mysql", "MySQL": "mysql",
		"Oracle": "oracle", "Postgres": "postgres", "SQL Server": "sqlserver", "SQLite": "sqlite"}
)

// A Store is a database together with what we need to know about its dialect. The queries
// in this package are written with '?' placeholders and rewritten for the drivers that want
// something else.
type Store struct {
	*sql.DB
	driver string
}

// Open connects to the database described by the hub configuration.
func Open(cfg settings.DatabaseConfig) (*Store, error) {
	if drivers[cfg.Driver] == "sqlite" {
		return OpenSQLite(cfg.Name)
	}
	return GetdB(cfg.Driver, cfg.Host, strconv.Itoa(cfg.Port), cfg.Name, cfg.Username, cfg.Password)
}

func GetdB(driver, host, port, db, user, password string) (*Store, error) {
	driverName, ok := drivers[driver]
	if !ok {
		return nil, errors.Errorf("unknown SQL driver %q", driver)
	}
	var connectionString string
	switch driverName {
	case "postgres":
		connectionString = fmt.Sprintf("host=%v port=%v dbname=%v user=%v password=%v sslmode=disable",
			host, port, db, user, password)
	case "mysql":
		connectionString = fmt.Sprintf("%v:%v@tcp(%v:%v)/%v", user, password, host, port, db)
	case "firebirdsql":
		connectionString = fmt.Sprintf("%v:%v@%v:%v/%v", user, password, host, port, db)
	case "oracle":
		connectionString = fmt.Sprintf("oracle://%v:%v@%v:%v/%v", user, password, host, port, db)
	case "sqlserver":
		connectionString = fmt.Sprintf("sqlserver://%v:%v@%v:%v?database=%v", user, password, host, port, db)
	default:
		connectionString = db
	}
	return connect(driverName, connectionString)
}

// OpenSQLite opens or creates the SQLite database file at the given path.
func OpenSQLite(path string) (*Store, error) {
	if e := os.MkdirAll(filepath.Dir(path), 0o755); e != nil {
		return nil, errors.Wrapf(e, "can't make directory for database %s", path)
	}
	return connect("sqlite", path)
}

func connect(driverName, connectionString string) (*Store, error) {
	sqlObj, connectionError := sql.Open(driverName, connectionString)
	if connectionError != nil {
		return nil, errors.Wrapf(connectionError, "can't open %s database", driverName)
	}
	err := sqlObj.Ping()
	if err != nil {
		sqlObj.Close()
		return nil, errors.Wrapf(err, "can't reach %s database", driverName)
	}
	log.Infof("Connected to %s database", driverName)
	return &Store{DB: sqlObj, driver: driverName}, nil
}

// GetDriverOptions lists the drivers by the names the hub file knows them by.
func GetDriverOptions() string {
	result := "The following SQL drivers are available: \n\n"
	for k, v := range GetSortedDrivers() {
		result = result + fmt.Sprintf("  [%v] %v\n", k, v)
	}
	return result
}

func GetSortedDrivers() []string {
	dr := []string{}
	for k := range drivers {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

// Rewrites the '?' placeholders of a query for the driver.
func (db *Store) rebind(query string) string {
	var prefix string
	switch db.driver {
	case "postgres":
		prefix = "$"
	case "oracle":
		prefix = ":"
	case "sqlserver":
		prefix = "@p"
	default:
		return query
	}
	var out strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			out.WriteString(prefix + strconv.Itoa(n))
			continue
		}
		out.WriteRune(ch)
	}
	return out.String()
}

func (db *Store) blobType() string {
	switch db.driver {
	case "postgres":
		return "BYTEA"
	case "sqlserver":
		return "VARBINARY(MAX)"
	}
	return "BLOB"
}

func (db *Store) floatType() string {
	if db.driver == "sqlserver" {
		return "FLOAT"
	}
	return "DOUBLE PRECISION"
}
