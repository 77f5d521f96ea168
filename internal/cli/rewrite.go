package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rewriteOptions holds validated options for the rewrite command.
type rewriteOptions struct {
	configPath string
	postID     string
	output     string
}

// RewriteCmd creates the rewrite command (paraphrase a story without
// producing audio or video). The env parameter provides injectable
// dependencies for testing.
func RewriteCmd(env *Env) *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "rewrite <post-id>",
		Short: "Paraphrase one Reddit story into a narration script",
		Long: `Fetch a Reddit post by ID and paraphrase it into a narration script.

No audio or video is produced. The script goes to stdout, or to a file
with --output.`,
		Example: `  tiktokposter rewrite 1abc2d
  tiktokposter rewrite 1abc2d -o script.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := rewriteOptions{
				configPath: configPath,
				postID:     args[0],
				output:     output,
			}
			return runRewrite(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.toml (default: search upward from the working directory)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the script to a file instead of stdout")

	return cmd
}

// runRewrite executes the rewrite command with validated options.
func runRewrite(ctx context.Context, env *Env, opts rewriteOptions) error {
	cfg, err := env.ConfigLoader.Load(opts.configPath)
	if err != nil {
		return err
	}

	client, err := newClient(env, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Fetching post %s...\n", opts.postID)
	target, err := client.FetchPostByID(ctx, opts.postID)
	if err != nil {
		return err
	}

	rewriter := env.RewriterFactory.NewRewriter(cfg, env.Stderr)

	fmt.Fprintf(env.Stderr, "Rewriting %d words...\n", target.WordCount())
	script, err := rewriter.Rewrite(ctx, target.OriginalText, cfg.Rewriter.TargetWordCount)
	if err != nil {
		return err
	}

	if opts.output == "" {
		fmt.Fprintln(env.Stdout, script)
		return nil
	}
	if err := writeScript(opts.output, script); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Done: %s\n", opts.output)
	return nil
}

// writeScript writes the script to a new file, refusing to clobber.
func writeScript(path, script string) error {
	// #nosec G304 -- user-specified output file
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(script + "\n"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}
	return nil
}
