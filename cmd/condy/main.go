package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "condy",
	Short: "Condy — Portal de Manutenção Predial",
	Long:  "Condy is the web portal for condominium maintenance: síndicos open chamados, prestadores send propostas, and platform admins manage users, all backed by the Condy REST API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/condy.yaml)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
