package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicl-arrears/internal/addrsplit"
	"github.com/nicl-arrears/internal/config"
	import_pkg "github.com/nicl-arrears/internal/import"
	"github.com/nicl-arrears/internal/letters"
)

var (
	app config.App
	seg *addrsplit.Segmenter

	gazetteerPath string
	debugMode     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arrears",
		Short: "NICL arrears letter preparation",
		Long:  `Segments free-text Mauritius addresses into three printable lines and prepares arrears letter batches`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&gazetteerPath, "gazetteer", "", "YAML gazetteer replacing the built-in town list")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Trace which strategy split each address")

	rootCmd.AddCommand(createSplitCmd())
	rootCmd.AddCommand(createBatchCmd())
	rootCmd.AddCommand(createImportCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createCompareCmd())
	rootCmd.AddCommand(createGazetteerCmd())
	rootCmd.AddCommand(createMergeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	app = config.FromEnv()

	if cmd.Flags().Changed("gazetteer") {
		app.GazetteerPath = gazetteerPath
	}
	if cmd.Flags().Changed("debug") {
		app.Debug = debugMode
	}

	gaz := addrsplit.Default()
	if app.GazetteerPath != "" {
		loaded, err := addrsplit.LoadGazetteer(app.GazetteerPath)
		if err != nil {
			return err
		}
		gaz = loaded
	}
	seg = addrsplit.New(addrsplit.WithGazetteer(gaz), addrsplit.WithDebug(app.Debug))
	return nil
}

// letterOptions builds the preparation options shared by the batch commands
func letterOptions(category string, minArrears float64) letters.Options {
	return letters.Options{
		Category:   category,
		MinArrears: minArrears,
		Segmenter:  seg,
	}
}

// letterFlags are the preparation flags shared by batch and import
type letterFlags struct {
	category   string
	minArrears float64
	layout     string
	product    string
	windows    bool
}

func (f *letterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Letter type: L0, L1, L2, MED (default L0, or Inactive_<Product> for the inactive layout)")
	cmd.Flags().Float64Var(&f.minArrears, "min-arrears", -1, "Minimum arrears for a letter (default from ARREARS_MIN_AMOUNT)")
	cmd.Flags().StringVar(&f.layout, "layout", import_pkg.ArrearsLayout.Name, "Extract format: arrears or inactive")
	cmd.Flags().StringVar(&f.product, "product", "health", "Inactive policy letters: health or nonmotor")
	cmd.Flags().BoolVar(&f.windows, "windows-1252", false, "Decode the CSV as Windows-1252")
}

func (f *letterFlags) inactive() bool {
	return strings.EqualFold(strings.TrimSpace(f.layout), import_pkg.InactiveLayout.Name)
}

// reader returns the CSV reader for --layout, checking --product on the way
func (f *letterFlags) reader() (import_pkg.CSVReader, error) {
	layout, err := import_pkg.LayoutByName(f.layout)
	if err != nil {
		return import_pkg.CSVReader{}, err
	}
	if p := strings.ToLower(f.product); p != "health" && p != "nonmotor" {
		return import_pkg.CSVReader{}, fmt.Errorf("unknown product %q, want health or nonmotor", f.product)
	}
	return import_pkg.CSVReader{Windows1252: f.windows, Layout: layout}, nil
}

// options builds the letter options. Inactive policy letters are collected
// on the per-product merchant, and non-motor ones name each row's product
// in the subject line.
func (f *letterFlags) options() letters.Options {
	opts := letterOptions(f.category, resolveMinArrears(f.minArrears))
	if !f.inactive() {
		return opts
	}

	nonMotor := strings.EqualFold(f.product, "nonmotor")
	if opts.Category == "" {
		opts.Category = "Inactive_Health"
		if nonMotor {
			opts.Category = "Inactive_Nonmotor"
		}
	}
	opts.Merchant = letters.InactiveMerchantID
	opts.SubjectFromProduct = nonMotor
	return opts
}

func resolveMinArrears(flag float64) float64 {
	if flag >= 0 {
		return flag
	}
	return app.MinArrears
}
