package database

import (
	"database/sql"
	"math"
	"time"

	"fortio.org/log"
	"github.com/pkg/errors"

	"github.com/ElementialCoder/fmath/source/cache"
	"github.com/ElementialCoder/fmath/source/vm"
)

// The hub can keep named programs in a database, along with a record of what happened each
// time one was run. The bytecode is stored as well as the source, with the digest of the
// source to show that the two belong together.

// Creates the tables if they don't already exist.
func Migrate(db *Store) error {
	query :=
		`CREATE TABLE IF NOT EXISTS Programs (
    name varchar(64),
    digest varchar(64),
    source varchar(4000),
    bytecode ` + db.blobType() + `,
    created BIGINT,
PRIMARY KEY (name))`
	if _, err := db.Exec(query); err != nil {
		return errors.Wrap(err, "can't create table Programs")
	}
	query =
		`CREATE TABLE IF NOT EXISTS Runs (
    name varchar(64),
    result ` + db.floatType() + `,
    message varchar(256),
    created BIGINT)`
	if _, err := db.Exec(query); err != nil {
		return errors.Wrap(err, "can't create table Runs")
	}
	return nil
}

// SaveProgram stores the program under the name, replacing whatever was there.
func SaveProgram(db *Store, name, source string, program vm.Program) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "can't begin transaction")
	}
	defer tx.Rollback()
	if _, err = tx.Exec(db.rebind(`DELETE FROM Programs WHERE name = ?`), name); err != nil {
		return errors.Wrapf(err, "can't replace program %s", name)
	}
	_, err = tx.Exec(db.rebind(`INSERT INTO Programs(name, digest, source, bytecode, created)
	VALUES (?, ?, ?, ?, ?)`), name, cache.Digest(source), source, vm.Encode(program), time.Now().UnixNano())
	if err != nil {
		return errors.Wrapf(err, "can't save program %s", name)
	}
	log.Infof("Saved program %s", name)
	return errors.Wrap(tx.Commit(), "can't commit transaction")
}

// LoadProgram returns the source code and the compiled program saved under the name.
func LoadProgram(db *Store, name string) (string, vm.Program, error) {
	var digest, source string
	var bytecode []byte
	row := db.QueryRow(db.rebind("SELECT digest, source, bytecode FROM Programs WHERE name = ?"), name)
	err := row.Scan(&digest, &source, &bytecode)
	if err == sql.ErrNoRows {
		return "", nil, errors.Errorf("there is no program called '%s'", name)
	}
	if err != nil {
		return "", nil, errors.Wrapf(err, "can't load program %s", name)
	}
	if digest != cache.Digest(source) {
		return "", nil, errors.Errorf("the bytecode of program '%s' doesn't match its source", name)
	}
	program, err := vm.Decode(bytecode)
	if err != nil {
		return "", nil, errors.Wrapf(err, "can't decode program %s", name)
	}
	return source, program, nil
}

func ListPrograms(db *Store) ([]string, error) {
	rows, err := db.Query("SELECT name FROM Programs ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "can't list programs")
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type Run struct {
	Name    string
	Result  float64 // NaN if the run failed.
	Error   string
	Created time.Time
}

// RecordRun notes the outcome of running the named program.
func RecordRun(db *Store, name string, result float64, runErr error) error {
	res := sql.NullFloat64{Float64: result, Valid: runErr == nil && !math.IsNaN(result)}
	msg := sql.NullString{}
	if runErr != nil {
		msg = sql.NullString{String: runErr.Error(), Valid: true}
	}
	_, err := db.Exec(db.rebind(`INSERT INTO Runs(name, result, message, created) VALUES (?, ?, ?, ?)`),
		name, res, msg, time.Now().UnixNano())
	return errors.Wrapf(err, "can't record run of %s", name)
}

// RunHistory returns the most recent runs of the named program, newest first.
func RunHistory(db *Store, name string, limit int) ([]Run, error) {
	rows, err := db.Query(db.rebind("SELECT name, result, message, created FROM Runs WHERE name = ? ORDER BY created DESC"), name)
	if err != nil {
		return nil, errors.Wrapf(err, "can't get history of %s", name)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() && len(runs) < limit {
		var run Run
		var result sql.NullFloat64
		var msg sql.NullString
		var created int64
		if err := rows.Scan(&run.Name, &result, &msg, &created); err != nil {
			return nil, err
		}
		run.Result = math.NaN()
		if result.Valid {
			run.Result = result.Float64
		}
		run.Error = msg.String
		run.Created = time.Unix(0, created)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
