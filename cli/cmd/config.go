package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
	"gopkg.in/yaml.v3"

	"github.com/vippsas/ddlfmt"
)

type FormatConfig struct {
	TemplateVariable string `yaml:"template_variable"`
	IndentWidth      int    `yaml:"indent_width"`
	KeywordCase      string `yaml:"keyword_case"`
}

type DatabaseConfig struct {
	// Connection is a URI-style dsn; its scheme picks the driver.
	Connection string `yaml:"connection"`
	// Database is bound to the template variable when applying.
	Database string `yaml:"database"`
}

type CIConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	Message     string `yaml:"message"`
}

type Config struct {
	Format    FormatConfig              `yaml:"format"`
	Databases map[string]DatabaseConfig `yaml:"databases"`
	CI        CIConfig                  `yaml:"ci"`
}

func OpenSocks5Sql(dsn string) (*sql.DB, error) {
	var err error
	var connector *mssql.Connector

	if strings.HasPrefix(dsn, "azuresql://") {
		connector, err = azuread.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
	} else if strings.HasPrefix(dsn, "sqlserver://") {
		connector, err = mssql.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
	} else if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		// The pgx stdlib driver registers itself when the root package is
		// linked in, so the plain database/sql entry point works here.
		return sql.Open("pgx", dsn)
	} else {
		return nil, errors.New("expected URI-style dsn; sqlserver:// or azuresql:// for SQL Server, postgres:// for PostgreSQL")
	}

	socksProxyAddress := os.Getenv("SQL_SOCKS")
	if socksProxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", socksProxyAddress, nil, nil)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("Could not connect with SOCKS5 to %s", socksProxyAddress))
		}
		connector.Dialer = dialer.(proxy.ContextDialer)
	}

	return sql.OpenDB(connector), nil
}

func LoadConfig() (Config, error) {
	var result Config

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		// Running without a config file is fine; flags and defaults rule.
		return result, nil
	}

	yamlFile, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(yamlFile, &result); err != nil {
		return Config{}, errors.Wrap(err, "could not parse "+configFile)
	}
	return result, nil
}

// formatConfig layers the config file over the library defaults and the
// command line flags over both.
func formatConfig(cfg Config) ddlfmt.Config {
	result := ddlfmt.DefaultConfig()
	if cfg.Format.TemplateVariable != "" {
		result.TemplateVariable = cfg.Format.TemplateVariable
	}
	if cfg.Format.IndentWidth > 0 {
		result.IndentWidth = cfg.Format.IndentWidth
	}
	if strings.EqualFold(cfg.Format.KeywordCase, "lower") {
		result.KeywordCase = ddlfmt.KeywordLower
	}
	if templateVar != "" {
		result.TemplateVariable = templateVar
	}
	if indentWidth > 0 {
		result.IndentWidth = indentWidth
	}
	return result
}
