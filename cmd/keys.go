package cmd

import (
	"github.com/pandodao/blst"
	"github.com/spf13/cobra"
)

// generate a blst key pair for a sync signer
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "generate a blst key pair for the config sync committee",
	Run: func(cmd *cobra.Command, args []string) {
		private := blst.GenerateKey()
		public := private.PublicKey()

		cmd.Println("blst private key: ", private.String())
		cmd.Println("blst public key:", public.String())
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
