package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/export"
	"github.com/goliatone/go-schemeweave/pkg/prompt"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/serialize"
	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

var errValidationFailed = errors.New("validation failed")

func schemasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the schemas and templates in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, def := range a.catalog.Definitions() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Key, def.Name, def.Type)
				for _, tpl := range def.Templates {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", tpl.ID, tpl.Name, tpl.Description)
				}
			}
			return tw.Flush()
		},
	}
}

func useCmd(a *app) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "use <schema> [template]",
		Short: "Select the active schema and template",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds := []workspace.Command{workspace.SelectSchema{Schema: args[0]}}
			if len(args) == 2 {
				cmds = append(cmds, workspace.SelectTemplate{Template: args[1], SeedDefaults: seed})
			}
			if err := a.apply(cmd.Context(), cmds...); err != nil {
				return err
			}
			a.printf("Using %s\n", a.ws.Selection().Key())
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Load the template default values")
	return cmd
}

func setCmd(a *app) *cobra.Command {
	var (
		asList bool
		pairs  []string
	)
	cmd := &cobra.Command{
		Use:   "set <field> [value...]",
		Short: "Set a field value",
		Long: `Set a field value. Values are joined with spaces unless --list is given.
Object fields take --object key=value pairs, or a single entry can be set with
a dotted field path such as author.name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			field, values := args[0], args[1:]

			var value document.Value
			switch {
			case len(pairs) > 0:
				entries := make([]document.Pair, 0, len(pairs))
				for _, raw := range pairs {
					key, text, ok := strings.Cut(raw, "=")
					if !ok || strings.TrimSpace(key) == "" {
						return fmt.Errorf("invalid --object entry %q, want key=value", raw)
					}
					entries = append(entries, document.Pair{Key: strings.TrimSpace(key), Value: text})
				}
				current, _ := ws.Value(field)
				value = document.Object(append(current.Pairs(), entries...)...)
			case asList:
				value = document.List(values...)
			case strings.Contains(field, "."):
				parent, child, _ := strings.Cut(field, ".")
				current, _ := ws.Value(parent)
				field, value = parent, current.With(child, strings.Join(values, " "))
			default:
				value = document.Text(strings.Join(values, " "))
			}
			return a.apply(cmd.Context(), workspace.SetValue{Field: field, Value: value})
		},
	}
	cmd.Flags().BoolVar(&asList, "list", false, "Store the values as a list")
	cmd.Flags().StringArrayVar(&pairs, "object", nil, "Object entry key=value (repeatable)")
	return cmd
}

func fieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields of the active context in resolved order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for idx, field := range ws.Fields() {
				value, _ := ws.Value(field.ID)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", idx, field.ID, field.DisplayLabel(), field.Type, fieldFlags(field), value)
			}
			return tw.Flush()
		},
	}
}

func fieldFlags(field schema.Field) string {
	var flags []string
	if field.Required {
		flags = append(flags, "required")
	}
	if field.Locked {
		flags = append(flags, "locked")
	}
	if field.Custom {
		flags = append(flags, "custom")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func addFieldCmd(a *app) *cobra.Command {
	var (
		label       string
		fieldType   string
		description string
		helpText    string
		required    bool
	)
	cmd := &cobra.Command{
		Use:   "add-field",
		Short: "Add a custom field to the active context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			add := &workspace.AddCustomField{Field: schema.Field{
				Label:       label,
				Type:        schema.FieldType(fieldType),
				Description: description,
				HelpText:    helpText,
				Required:    required,
			}}
			if err := a.apply(cmd.Context(), add); err != nil {
				return err
			}
			a.printf("Added %s\n", add.Field.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Field label")
	cmd.Flags().StringVar(&fieldType, "type", string(schema.FieldTypeText), "Field type (text, email, url, number, boolean, array, object)")
	cmd.Flags().StringVar(&description, "description", "", "Field description")
	cmd.Flags().StringVar(&helpText, "help", "", "Help text shown when prompting")
	cmd.Flags().BoolVar(&required, "required", false, "Mark the field as required")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func removeFieldCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-field <id>",
		Short: "Remove a custom field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd.Context(), workspace.RemoveCustomField{Field: args[0]})
		},
	}
}

func moveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <field> <index>",
		Short: "Move a field to a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			return a.apply(cmd.Context(), workspace.ReorderField{Field: args[0], Index: index})
		},
	}
}

func moveItemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move-item <field> <from> <to>",
		Short: "Move one item of a list value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[2])
			}
			return a.apply(cmd.Context(), workspace.ReorderItem{Field: args[0], From: from, To: to})
		},
	}
}

func resetOrderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-order",
		Short: "Restore the declared field order and drop custom fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd.Context(), workspace.ResetOrder{})
		},
	}
}

func previewCmd(a *app) *cobra.Command {
	var (
		format      string
		makeDefault bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the serialized document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			selected := ws.PreviewFormat()
			if format != "" {
				if selected, err = serialize.ParseFormat(format); err != nil {
					return err
				}
			}
			if makeDefault {
				if err := a.apply(cmd.Context(), workspace.SetPreviewFormat{Format: selected}); err != nil {
					return err
				}
			}
			out, err := ws.Render(selected)
			if err != nil {
				return err
			}
			a.printf("%s\n", strings.TrimRight(out, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, json-ld, xml, turtle)")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Remember the format for later previews")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		format string
		name   string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the serialized document to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.Export.Format
			}
			selected, err := serialize.ParseFormat(format)
			if err != nil {
				return err
			}
			if name == "" {
				name = export.DefaultBaseName(ws.Selection().Schema, a.now())
			}
			if dir == "" {
				dir = a.cfg.Export.Dir
			}

			content, err := ws.Render(selected)
			if err != nil {
				return err
			}
			path, err := export.Write(dir, name, selected, content)
			if err != nil {
				return err
			}
			a.logger.Debug("Exported document", "path", path, "format", selected)
			a.printf("%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (default from config)")
	cmd.Flags().StringVar(&name, "name", "", "File base name (default <schema>-document-<date>)")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default from config)")
	return cmd
}

func saveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the form data as a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.apply(cmd.Context(), workspace.SaveDocument{}); err != nil {
				return err
			}
			doc, _ := a.ws.CurrentDocument()
			a.printf("Saved %s\n", doc.ID)
			return nil
		},
	}
}

func documentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List saved documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			current, _ := ws.CurrentDocument()
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, doc := range ws.Documents() {
				marker := " "
				if doc.ID == current.ID {
					marker = "*"
				}
				selection := workspace.Selection{Schema: doc.Schema, Template: doc.Template}
				fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, doc.ID, selection.Key(), doc.Metadata.Modified.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}
}

func loadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <id>",
		Short: "Load a saved document into the form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.apply(cmd.Context(), workspace.LoadDocument{ID: args[0]}); err != nil {
				return err
			}
			a.printf("Loaded %s (%s)\n", args[0], a.ws.Selection().Key())
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd.Context(), workspace.DeleteDocument{ID: args[0]})
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the form data against the field rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			problems := ws.Validate()
			if problems.Empty() {
				a.printf("OK\n")
				return nil
			}
			for _, path := range problems.Paths() {
				a.printf("%s: %s\n", path, strings.Join(problems[path], "; "))
			}
			return errValidationFailed
		},
	}
}

func fillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			opts := []prompt.Option{prompt.WithLogger(a.logger)}
			if a.driver != nil {
				opts = append(opts, prompt.WithPromptDriver(a.driver))
			}
			fields := ws.Fields()
			filled, err := prompt.New(opts...).Fill(cmd.Context(), fields, ws.FormData())
			if err != nil {
				return err
			}
			values := make(document.FormData, len(fields))
			for _, field := range fields {
				values[field.ID] = filled[field.ID]
			}
			return a.apply(cmd.Context(), workspace.SetValues{Values: values})
		},
	}
}
