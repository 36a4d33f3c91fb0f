package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/excelra/asset-scout/pkg/asset"
	"github.com/excelra/asset-scout/pkg/server"
)

const assetsPath = server.BasePath + "/assets"

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		filter      asset.Filter
		filterQuery string
		pageSize    int
		pageToken   string
		fetchAll    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets in browse order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newClient(opts)

			query := func(token string) string {
				q := filter.Values()
				if cmd.Flags().Changed("min-ready") {
					q.Set(asset.ParamMinReadiness, strconv.Itoa(filter.MinReadiness))
				}
				if filterQuery != "" {
					q.Set("filterQuery", filterQuery)
				}
				if pageSize > 0 {
					q.Set("pageSize", strconv.Itoa(pageSize))
				}
				if token != "" {
					q.Set("pageToken", token)
				}
				if len(q) == 0 {
					return assetsPath
				}
				return assetsPath + "?" + q.Encode()
			}

			var result server.PaginatedResult[asset.Asset]
			if err := client.getJSON(query(pageToken), &result); err != nil {
				return fmt.Errorf("failed to list assets: %w", err)
			}
			items := result.Items
			for fetchAll && result.NextPageToken != "" {
				next := result.NextPageToken
				result = server.PaginatedResult[asset.Asset]{}
				if err := client.getJSON(query(next), &result); err != nil {
					return fmt.Errorf("failed to fetch next page: %w", err)
				}
				items = append(items, result.Items...)
			}

			out := cmd.OutOrStdout()
			if structured(opts.output) {
				result.Items = items
				result.PageSize = len(items)
				return printOutput(out, opts.output, result)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No assets found.")
				return nil
			}
			printAssetTable(out, items)
			if !fetchAll && result.NextPageToken != "" {
				fmt.Fprintf(out, "\nNext page token: %s\n", result.NextPageToken)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&filter.Text, "query", "q", "", "Free-text search")
	f.StringVar(&filter.PrimaryBU, "primary-bu", "", "Primary business unit")
	f.StringVar(&filter.AssetType, "asset-type", "", "Asset type")
	f.StringVar(&filter.LicenseFlag, "license-flag", "", "License flag (Green, Yellow, Red)")
	f.StringVar(&filter.UseCase, "use-case", "", "Use case substring")
	f.IntVar(&filter.MinReadiness, "min-ready", 0, "Minimum readiness score")
	f.StringVar(&filterQuery, "filter-query", "", "Filter expression, e.g. \"asset_type = 'Model' AND readiness_score >= 3\"")
	f.IntVar(&pageSize, "page-size", 0, "Page size (0 returns everything)")
	f.StringVar(&pageToken, "page-token", "", "Token of the page to fetch")
	f.BoolVar(&fetchAll, "all", false, "Follow page tokens until the last page")
	return cmd
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			var a asset.Asset
			if err := newClient(opts).getJSON(assetPath(id), &a); err != nil {
				return fmt.Errorf("failed to get asset %d: %w", id, err)
			}
			return printAsset(cmd.OutOrStdout(), opts.output, &a)
		},
	}
}

func newCreateCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Create an asset from a YAML or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := readPayload(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			var created asset.Asset
			if err := newClient(opts).postJSON(assetsPath, p, &created); err != nil {
				return fmt.Errorf("failed to create asset: %w", err)
			}
			if structured(opts.output) {
				return printOutput(cmd.OutOrStdout(), opts.output, created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created asset %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Payload file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update ID -f FILE",
		Short: "Replace every field of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			p, err := readPayload(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			var updated asset.Asset
			if err := newClient(opts).putJSON(assetPath(id), p, &updated); err != nil {
				return fmt.Errorf("failed to update asset %d: %w", id, err)
			}
			if structured(opts.output) {
				return printOutput(cmd.OutOrStdout(), opts.output, updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated asset %d (%s)\n", updated.ID, updated.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Payload file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			if err := newClient(opts).delete(assetPath(id)); err != nil {
				return fmt.Errorf("failed to delete asset %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted asset %d\n", id)
			return nil
		},
	}
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the server's seed records into an empty catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Inserted int `json:"inserted"`
			}
			if err := newClient(opts).postJSON(server.BasePath+"/seed", nil, &resp); err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			if structured(opts.output) {
				return printOutput(cmd.OutOrStdout(), opts.output, resp)
			}
			if resp.Inserted == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog already populated, nothing seeded.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d assets\n", resp.Inserted)
			return nil
		},
	}
}

func newVocabularyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vocabulary",
		Short: "Show accepted business units, asset types, license flags and suggested use cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var v asset.Vocabulary
			if err := newClient(opts).getJSON(server.BasePath+"/vocabulary", &v); err != nil {
				return fmt.Errorf("failed to get vocabulary: %w", err)
			}
			out := cmd.OutOrStdout()
			if structured(opts.output) {
				return printOutput(out, opts.output, v)
			}
			printTable(out, []string{"Field", "Values"}, [][]string{
				{"primary_bu", strings.Join(v.BusinessUnits, ", ")},
				{"asset_type", strings.Join(v.AssetTypes, ", ")},
				{"license_flag", strings.Join(v.LicenseFlags, ", ")},
				{"use_cases", strings.Join(v.UseCases, ", ")},
			})
			return nil
		},
	}
}

func assetPath(id int64) string {
	return assetsPath + "/" + url.PathEscape(strconv.FormatInt(id, 10))
}

func parseAssetID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid asset id %q", s)
	}
	return id, nil
}

// readPayload decodes a payload from path, or from stdin when path is "-".
// JSON files are accepted since JSON is valid YAML.
func readPayload(path string, stdin io.Reader) (asset.Payload, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return asset.Payload{}, fmt.Errorf("open payload: %w", err)
		}
		defer f.Close()
		r = f
	}

	var p asset.Payload
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return asset.Payload{}, errors.New("payload is empty")
		}
		return asset.Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

func printAsset(w io.Writer, format string, a *asset.Asset) error {
	if structured(format) {
		return printOutput(w, format, a)
	}
	printTable(w, []string{"Field", "Value"}, [][]string{
		{"ID", strconv.FormatInt(a.ID, 10)},
		{"Name", a.Name},
		{"URL", a.URL},
		{"Summary", a.ShortSummary},
		{"Primary BU", a.PrimaryBU},
		{"Secondary BUs", strings.Join(a.SecondaryBUs, ", ")},
		{"Use cases", strings.Join(a.UseCases, ", ")},
		{"Type", a.AssetType},
		{"License", a.LicenseFlag},
		{"License notes", a.LicenseNotes},
		{"Scores (R/E/M)", scores(a)},
		{"Last validated", a.LastValidatedOn},
		{"Owner", a.Owner},
		{"Leverage", a.ExcelraLeverage},
		{"Notes", a.Notes},
	})
	return nil
}

func printAssetTable(w io.Writer, items []asset.Asset) {
	rows := make([][]string, 0, len(items))
	for i := range items {
		a := &items[i]
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			truncate(a.Name, 32),
			a.AssetType,
			a.PrimaryBU,
			a.LicenseFlag,
			scores(a),
			a.LastValidatedOn,
		})
	}
	printTable(w, []string{"ID", "Name", "Type", "Primary BU", "License", "R/E/M", "Validated"}, rows)
}

func scores(a *asset.Asset) string {
	return fmt.Sprintf("%d/%d/%d", a.ReadinessScore, a.EngineeringScore, a.MaintenanceScore)
}
