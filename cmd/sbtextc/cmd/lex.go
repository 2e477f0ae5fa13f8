package cmd

import (
	"fmt"
	"os"

	"github.com/sbtext-lang/sbtextc/internal/diag"
	"github.com/sbtext-lang/sbtextc/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexShowPos  bool
	lexShowType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize an SBText file and print the resulting tokens",
	Long: `Tokenize an SBText file and print the resulting tokens, one per line.

Examples:
  sbtextc lex script.sbtext
  sbtextc lex --show-type --show-pos script.sbtext`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
}

func runLex(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	tokens, err := lexer.New(string(content)).Tokenize()
	if err != nil {
		compilerErr := diag.FromError(err, string(content), filename)
		fmt.Fprint(os.Stderr, compilerErr.Format(true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("lexing failed")
	}

	for _, tok := range tokens {
		printToken(tok)
	}
	return nil
}

func printToken(tok lexer.Token) {
	var output string
	if lexShowType {
		output = fmt.Sprintf("[%-8s]", tok.Type)
	}
	if tok.Literal == "" {
		output += fmt.Sprintf(" %s", tok.Type)
	} else {
		output += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		output += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(output)
}
