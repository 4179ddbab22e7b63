package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/edition"
	"github.com/corduroy/collector/internal/logger"
)

func newSetURICmd(a *app) *cobra.Command {
	var rawID, uri string

	cmd := &cobra.Command{
		Use:   "set-uri",
		Short: "Update the metadata URI of an edition",
		Example: `  edition-admin set-uri --id 1 --uri ipfs://bafy.../1.json
  edition-admin set-uri --id 2 --uri 'https://meta.example/{id}.json'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseEditionID(rawID)
			if err != nil {
				return err
			}
			if uri == "" {
				return fmt.Errorf("uri must not be empty")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			chain, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer chain.Close()

			update, err := chain.SetURI(ctx, id, uri)
			if err != nil {
				return fmt.Errorf("failed to set uri of edition %s: %w", id, err)
			}
			logger.InfoCtx(ctx, "Edition uri updated", zap.String("editionId", id.String()), zap.String("txHash", update.TxHash.Hex()))

			fmt.Fprintf(cmd.OutOrStdout(), "tx:  %s\nuri: %s\n", update.TxHash.Hex(), update.CurrentURI)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawID, "id", "", "Edition id")
	cmd.Flags().StringVar(&uri, "uri", "", "New metadata URI")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func newGetURICmd(a *app) *cobra.Command {
	var rawID string

	cmd := &cobra.Command{
		Use:   "get-uri",
		Short: "Print the metadata URI of an edition",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseEditionID(rawID)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			chain, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer chain.Close()

			uri, err := chain.URI(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to read uri of edition %s: %w", id, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawID, "id", "", "Edition id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newBalanceCmd(a *app) *cobra.Command {
	var rawWallet string
	var rawIDs []string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the edition balances of a wallet",
		Long:  "Print the balance of a wallet for each --id, or for every known edition when no id is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := domain.ParseAddress(rawWallet)
			if err != nil {
				return err
			}

			if len(rawIDs) == 0 {
				rawIDs = a.cfg.Editions.KnownIDs
			}
			ids := make([]domain.EditionID, 0, len(rawIDs))
			for _, raw := range rawIDs {
				id, err := domain.ParseEditionID(raw)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			chain, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer chain.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "EDITION\tBALANCE")
			for _, id := range ids {
				balance, err := chain.BalanceOf(ctx, wallet, id)
				if err != nil {
					return fmt.Errorf("failed to read balance of edition %s: %w", id, err)
				}
				fmt.Fprintf(w, "%s\t%s\n", id, balance)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&rawWallet, "wallet", "", "Wallet address")
	cmd.Flags().StringSliceVar(&rawIDs, "id", nil, "Edition ids, defaults to the known editions")
	_ = cmd.MarkFlagRequired("wallet")

	return cmd
}

func newPinsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pins",
		Short: "Validate and print the PIN and label tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			pins, err := edition.ParseMapping(a.cfg.Editions.PinMap)
			if err != nil {
				return fmt.Errorf("pin map: %w", err)
			}
			labels, err := edition.ParseMapping(a.cfg.Editions.LabelMap)
			if err != nil {
				return fmt.Errorf("label map: %w", err)
			}
			resolver, err := edition.NewResolver(pins, labels)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PIN\tMAPS TO\tEDITION")
			for _, pin := range pins.Keys() {
				id, err := resolver.Resolve(edition.Request{PIN: &pin})
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", pin, pins[pin], id)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "LABEL\tEDITION")
			for _, label := range labels.Keys() {
				fmt.Fprintf(w, "%s\t%s\n", label, labels[label])
			}
			return w.Flush()
		},
	}
}
