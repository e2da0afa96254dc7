package cmd

import (
	"sync"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"

	"lendpool/worker"
	"lendpool/worker/syncer"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lendpool job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()

		messageStore := provideMessageStore(database)
		propertyStore := providePropertyStore(database)
		syncService := provideSyncService(database, system)

		workers := []worker.Worker{
			syncer.New(messageStore, syncService, propertyStore),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				_ = worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
