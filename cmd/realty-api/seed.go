package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajivgeraev/realty-api/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Загрузить демонстрационные объекты",
	Long:  "Загружает медиа и объекты из YAML-файла. Без --file используется встроенный набор.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		summary, err := seed.Apply(cmd.Context(), st, fixtures, time.Now(), logger)
		if err != nil {
			return err
		}
		logger.Info("Данные загружены",
			zap.Int("media", summary.Media),
			zap.Int("properties", summary.Properties),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "путь к YAML с объектами")
}
