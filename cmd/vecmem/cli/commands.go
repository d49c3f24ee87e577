package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	vectorText string
	metaPairs  []string
	importance float64
	topK       int
	threshold  float64
	useSQL     bool
)

var putCmd = &cobra.Command{
	Use:   "put",
	Short: "Store an embedding with metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		embedding, err := parseVector(vectorText)
		if err != nil {
			return err
		}
		meta, err := parseMetadata(metaPairs)
		if err != nil {
			return err
		}
		s, err := openSession(cmd, embedding)
		if err != nil {
			return err
		}
		defer s.close()

		id, err := s.mem.Store(embedding, meta)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("importance") {
			s.mem.SetImportance(id, importance)
		}
		if err := s.save(cmd); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the nearest stored embeddings",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := parseVector(vectorText)
		if err != nil {
			return err
		}
		s, err := openSession(cmd, query)
		if err != nil {
			return err
		}
		defer s.close()
		out := cmd.OutOrStdout()

		if useSQL {
			matches, err := s.store.Scan(commandContext(cmd), s.mem.Config().Metric, query, topK)
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%s\t%.6f\n", m.ID, m.Score)
			}
			return nil
		}
		results, err := s.mem.Search(query, topK, threshold)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(out, "%s\t%.6f\t%v\n", r.ID, r.Score, r.Metadata)
		}
		// access counters changed
		return s.save(cmd)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a stored item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, nil)
		if err != nil {
			return err
		}
		defer s.close()
		if s.mem == nil || !s.mem.Remove(args[0]) {
			return fmt.Errorf("item %s not found", args[0])
		}
		if err := s.save(cmd); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show memory statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, nil)
		if err != nil {
			return err
		}
		defer s.close()
		cfg := s.cfg
		out := cmd.OutOrStdout()
		if s.mem == nil {
			fmt.Fprintf(out, "items: 0/%d (0.0%%)\n", cfg.Capacity)
			fmt.Fprintf(out, "dimension: unset\n")
			fmt.Fprintf(out, "metric: %s\n", cfg.Metric)
			fmt.Fprintf(out, "eviction: %s\n", cfg.EvictionPolicy)
			return nil
		}
		st := s.mem.Stats()
		fmt.Fprintf(out, "items: %d/%d (%.1f%%)\n", st.Items, st.Capacity, st.UsageRatio*100)
		fmt.Fprintf(out, "dimension: %d\n", cfg.Dimension)
		fmt.Fprintf(out, "metric: %s\n", cfg.Metric)
		fmt.Fprintf(out, "eviction: %s\n", cfg.EvictionPolicy)
		fmt.Fprintf(out, "approximate: %t\n", st.Approximate)
		fmt.Fprintf(out, "index: %s nodes=%d leaves=%d depth=%d\n", st.IndexState, st.Index.Nodes, st.Index.Leaves, st.Index.Depth)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(putCmd)
	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(statsCmd)

	putCmd.Flags().StringVar(&vectorText, "vector", "", "Comma separated embedding")
	putCmd.Flags().StringArrayVar(&metaPairs, "meta", nil, "Metadata key=value (repeatable)")
	putCmd.Flags().Float64Var(&importance, "importance", 0, "Importance score used by importance eviction")
	_ = putCmd.MarkFlagRequired("vector")

	searchCmd.Flags().StringVar(&vectorText, "vector", "", "Comma separated query embedding")
	searchCmd.Flags().IntVarP(&topK, "topk", "k", 5, "Number of results")
	searchCmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum similarity, or maximum distance for distance metrics")
	searchCmd.Flags().BoolVar(&useSQL, "sql", false, "Scan the snapshot in SQLite instead of the in-memory index")
	_ = searchCmd.MarkFlagRequired("vector")
}
