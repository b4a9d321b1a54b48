// Package database provides relational database configuration options.
package database

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options defines configuration options for the relational database.
type Options struct {
	Driver                string        `json:"driver" mapstructure:"driver"`
	Host                  string        `json:"host" mapstructure:"host"`
	Port                  int           `json:"port" mapstructure:"port"`
	Username              string        `json:"username" mapstructure:"username"`
	Password              string        `json:"-" mapstructure:"password"`
	Database              string        `json:"database" mapstructure:"database"`
	MaxIdleConnections    int           `json:"max-idle-connections" mapstructure:"max-idle-connections"`
	MaxOpenConnections    int           `json:"max-open-connections" mapstructure:"max-open-connections"`
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`
	LogLevel              int           `json:"log-level" mapstructure:"log-level"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Driver:                DriverMySQL,
		Host:                  "127.0.0.1",
		Port:                  3306,
		Username:              "root",
		Password:              "",
		Database:              "ragchat",
		MaxIdleConnections:    10,
		MaxOpenConnections:    100,
		MaxConnectionLifeTime: 10 * time.Second,
		LogLevel:              1, // Silent
	}
}

// Validate checks if the options are valid.
func (o *Options) Validate() error {
	switch o.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", o.Driver)
	}

	// Fall back to the environment when the CLI flag is empty.
	if o.Password == "" {
		o.Password = os.Getenv("DB_PASSWORD")
	}

	if o.Password != "" && os.Getenv("DB_PASSWORD") == "" {
		fmt.Fprintf(os.Stderr, "WARNING: Passing database password via CLI is insecure. Use DB_PASSWORD environment variable instead.\n")
	}

	return nil
}

// AddFlags adds flags for database options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Driver, "db.driver", o.Driver, "Database driver (mysql, postgres or sqlite)")
	fs.StringVar(&o.Host, "db.host", o.Host, "Database host")
	fs.IntVar(&o.Port, "db.port", o.Port, "Database port")
	fs.StringVar(&o.Username, "db.username", o.Username, "Database username")
	fs.StringVar(&o.Password, "db.password", o.Password, "Database password (DEPRECATED: use DB_PASSWORD env var instead)")
	fs.StringVar(&o.Database, "db.database", o.Database, "Database name, or file path for sqlite")
	fs.IntVar(&o.MaxIdleConnections, "db.max-idle-connections", o.MaxIdleConnections, "Database max idle connections")
	fs.IntVar(&o.MaxOpenConnections, "db.max-open-connections", o.MaxOpenConnections, "Database max open connections")
	fs.DurationVar(&o.MaxConnectionLifeTime, "db.max-connection-life-time", o.MaxConnectionLifeTime, "Database max connection life time")
	fs.IntVar(&o.LogLevel, "db.log-level", o.LogLevel, "Database log level")
}

// DSN builds the driver-specific data source name.
func (o *Options) DSN() string {
	switch o.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			o.Host, o.Username, o.Password, o.Database, o.Port)
	case DriverSQLite:
		return o.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			o.Username, o.Password, o.Host, o.Port, o.Database)
	}
}
