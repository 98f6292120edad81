package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/skillgap/internal/domain/analyzer"
	"github.com/okian/skillgap/internal/domain/model"
)

var errRoleFlags = errors.New("exactly one of --role or --role-file is required")

type analyzeOptions struct {
	skillsFile  string
	roles       []string
	roleFile    string
	catalogFile string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a learner's skills against a role",
		Long: "Compares the skills in --skills with a catalog role (--role, repeatable) or an inline role profile " +
			"(--role-file) and prints the recommendation bundle as JSON. Several --role flags print one result per role.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.skillsFile, "skills", "s", "", "Path to a JSON or YAML list of skills (required)")
	cmd.Flags().StringArrayVarP(&opts.roles, "role", "r", nil, "Catalog role name; repeat for a batch")
	cmd.Flags().StringVar(&opts.roleFile, "role-file", "", "Path to a JSON or YAML role profile")
	cmd.Flags().StringVar(&opts.catalogFile, "catalog", "", "YAML catalog merged over the built-in roles")

	if err := cmd.MarkFlagRequired("skills"); err != nil {
		panic(fmt.Sprintf("failed to mark skills flag as required: %v", err))
	}
	cmd.MarkFlagsMutuallyExclusive("role", "role-file")
	return cmd
}

type batchOutput struct {
	RoleName string                      `json:"role_name"`
	Bundle   *model.RecommendationBundle `json:"bundle,omitempty"`
	Error    string                      `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	if (len(opts.roles) == 0) == (opts.roleFile == "") {
		return errRoleFlags
	}

	skills, err := readSkills(opts.skillsFile)
	if err != nil {
		return err
	}

	var roles []model.RoleProfile
	if opts.roleFile != "" {
		role, err := readRole(opts.roleFile)
		if err != nil {
			return err
		}
		roles = append(roles, role)
	} else {
		c, err := loadCatalog(opts.catalogFile)
		if err != nil {
			return err
		}
		for _, name := range opts.roles {
			role, err := c.Get(name)
			if err != nil {
				return err
			}
			roles = append(roles, role)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if len(roles) == 1 {
		bundle, err := analyzer.Analyze(skills, roles[0])
		if err != nil {
			return fmt.Errorf("analyze %s: %w", roles[0].RoleName, err)
		}
		return enc.Encode(bundle)
	}

	results, err := analyzer.AnalyzeBatch(cmd.Context(), skills, roles)
	if err != nil {
		return fmt.Errorf("analyze batch: %w", err)
	}
	out := make([]batchOutput, len(results))
	for i, r := range results {
		out[i] = batchOutput{RoleName: r.RoleName, Bundle: r.Bundle}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return enc.Encode(out)
}

// readSkills decodes a list of skills. Entries are names or
// {name, confidence} objects; JSON input is accepted as YAML.
func readSkills(path string) ([]model.RawSkill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skills file %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse skills file %s: %w", path, err)
	}
	// RawSkill knows the bare-string form only through its JSON decoder.
	bridged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert skills file %s: %w", path, err)
	}
	var skills []model.RawSkill
	if err := json.Unmarshal(bridged, &skills); err != nil {
		return nil, fmt.Errorf("skills file %s must hold a list of skills: %w", path, err)
	}
	return skills, nil
}

// readRole decodes a single role document. Unknown keys are rejected.
func readRole(path string) (model.RoleProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RoleProfile{}, fmt.Errorf("failed to read role file %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var role model.RoleProfile
	if err := dec.Decode(&role); err != nil {
		return model.RoleProfile{}, fmt.Errorf("failed to parse role file %s: %w", path, err)
	}
	return role, nil
}
