package cmd

import (
	"fmt"
	"os"

	"github.com/sbtext-lang/sbtextc/internal/config"
	"github.com/sbtext-lang/sbtextc/internal/diag"
	"github.com/sbtext-lang/sbtextc/pkg/sbtext"
	"github.com/spf13/cobra"
)

var (
	compileNoSVGScale   bool
	compileRequireStage bool
	compileConfigPath   string
)

var compileCmd = &cobra.Command{
	Use:   "compile <input.sbtext> <output.sb3>",
	Short: "Compile an SBText program into a Scratch 3 project",
	Long: `Compile resolves an SBText file's sprite imports, validates the
result, lowers it into a project.json block graph, packages its
costumes, and writes the finished .sb3 archive.

Examples:
  sbtextc compile game.sbtext game.sb3
  sbtextc compile game.sbtext game.sb3 --no-svg-scale
  sbtextc compile game.sbtext game.sb3 --config sbtextc.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().BoolVar(&compileNoSVGScale, "no-svg-scale", false, "do not retarget SVG costumes to a uniform viewBox")
	compileCmd.Flags().BoolVar(&compileRequireStage, "require-stage", false, "fail analysis if the project declares no stage")
	compileCmd.Flags().StringVar(&compileConfigPath, "config", "", "YAML config file supplying the SVG-scaling default")
}

func runCompile(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := config.Default()
	if compileConfigPath != "" {
		loaded, err := config.Load(compileConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", compileConfigPath, err)
		}
		cfg = loaded
	}

	scaleSVGs := cfg.ScaleSVGs
	if compileNoSVGScale {
		scaleSVGs = false
	}

	opts := []sbtext.Option{
		sbtext.WithScaleSVGs(scaleSVGs),
		sbtext.WithRequireStage(compileRequireStage),
	}
	if verbose {
		opts = append(opts, sbtext.WithProgress(func(stage sbtext.Stage) {
			fmt.Fprintf(os.Stderr, "%s\n", stage)
		}))
	}
	engine := sbtext.New(opts...)

	program, err := engine.CompileFile(inputPath)
	if err != nil {
		return reportCompileError(err, inputPath, verbose)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "writing archive: %s\n", outputPath)
	}

	if err := program.WriteArchive(outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	if !verbose {
		fmt.Printf("Compiled %s -> %s\n", inputPath, outputPath)
	}
	return nil
}

func reportCompileError(err error, inputPath string, verbose bool) error {
	compileErr, ok := err.(*sbtext.CompileError)
	if !ok {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%s failed\n", compileErr.Stage)
	}

	content, _ := os.ReadFile(inputPath)
	formatted := diag.FromError(compileErr.Err, string(content), inputPath)
	fmt.Fprint(os.Stderr, formatted.Format(true))
	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("%s failed", compileErr.Stage)
}
