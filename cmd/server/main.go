// Command server группирует записи каталогов товаров в группы одинаковых позиций
//
// @title Catalog Grouping API
// @version 1.0
// @description Группировка записей каталогов товаров: загрузка файлов, просмотр групп, ручной перенос элементов.
// @BasePath /api
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version подставляется при сборке через -ldflags
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "catalogdedup",
	Short:         "Catalog item grouping server",
	Long:          `Groups records from uploaded product catalogs (CSV, XLSX, PDF, HTML) into groups of the same item.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to YAML config file")
	rootCmd.AddCommand(serveCmd, groupCmd, configCheckCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
