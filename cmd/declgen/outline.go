package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"declgen/internal/decl"
)

func newOutlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline [flags] <doc>...",
		Short: "Print the merged declaration tree",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runOutline,
	}
	cmd.Flags().Bool("contributors", false, "show which document created each node")
	cmd.Flags().Bool("comments", false, "show comments")
	return cmd
}

func runOutline(cmd *cobra.Command, args []string) error {
	showContributors, err := cmd.Flags().GetBool("contributors")
	if err != nil {
		return fmt.Errorf("failed to get contributors flag: %w", err)
	}
	showComments, err := cmd.Flags().GetBool("comments")
	if err != nil {
		return fmt.Errorf("failed to get comments flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := runPipeline(cmd, cfg, runSpec{title: "declgen outline", files: args, needTree: true, noRender: true})
	if err != nil {
		return err
	}

	o := outliner{
		tree:         res.Tree,
		styles:       newOutlineStyles(!colorDisabled()),
		contributors: showContributors,
		comments:     showComments,
	}
	if err := o.write(cmd.OutOrStdout()); err != nil {
		return err
	}
	return printTimings(cmd, res)
}

type outlineStyles struct {
	namespace lipgloss.Style
	member    lipgloss.Style
	comment   lipgloss.Style
	meta      lipgloss.Style
	enabled   bool
}

func newOutlineStyles(enabled bool) outlineStyles {
	return outlineStyles{
		namespace: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		member:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		comment:   lipgloss.NewStyle().Faint(true),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		enabled:   enabled,
	}
}

func (s outlineStyles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

type outliner struct {
	tree         *decl.Tree
	styles       outlineStyles
	contributors bool
	comments     bool
}

// write prints one Describe line per node, two spaces per depth.
func (o outliner) write(w io.Writer) error {
	var err error
	o.tree.Walk(o.tree.Root(), func(id decl.NodeID) bool {
		if err != nil {
			return false
		}
		err = o.line(w, id)
		return err == nil
	})
	return err
}

func (o outliner) line(w io.Writer, id decl.NodeID) error {
	depth := o.depth(id)
	indent := strings.Repeat("  ", depth)
	node := o.tree.Node(id)

	if o.comments {
		for _, c := range node.Comments {
			if _, err := fmt.Fprintf(w, "%s%s\n", indent, o.styles.render(o.styles.comment, "# "+c)); err != nil {
				return err
			}
		}
	}

	style := o.styles.member
	if node.Kind.IsNamespace() {
		style = o.styles.namespace
	}
	text := o.styles.render(style, o.tree.Describe(id))
	if o.contributors && node.GeneratedBy != nil {
		text += " " + o.styles.render(o.styles.meta, "["+node.GeneratedBy.ContributorName()+"]")
	}
	_, err := fmt.Fprintf(w, "%s%s\n", indent, text)
	return err
}

func (o outliner) depth(id decl.NodeID) int {
	depth := 0
	for p := o.tree.Parent(id); p.IsValid(); p = o.tree.Parent(p) {
		depth++
	}
	return depth
}
