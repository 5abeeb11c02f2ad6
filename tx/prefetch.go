// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type signedItem struct {
	tag    string
	signed *Signed
}

// signedItems lists the signed messages carried by the transaction with their type tags.
func (t *Transaction) signedItems() []signedItem {
	switch t.Type {
	case TypeDelegate:
		return []signedItem{{"Delegate", t.Delegate}}
	case TypeTransfer:
		return []signedItem{{"Transfer", t.Transfer}}
	case TypeClear:
		if t.Clear == nil {
			return nil
		}
		return []signedItem{
			{"Request", t.Clear.Request},
			{"Bid", t.Clear.Bid},
			{"Settle", t.Clear.Settle},
			{"Execute", t.Clear.Execute},
			{"Fulfill", t.Clear.Fulfill},
			{"Verify", t.Clear.Verify},
		}
	}
	return nil
}

// PrefetchSigners recovers the signers of all signed messages in the batch concurrently,
// so that sequential execution hits the signer cache. Recovery failures are ignored here and
// surface when the transaction is executed. It returns the number of messages recovered.
func PrefetchSigners(ctx context.Context, b *Batch) (int, error) {
	var items []signedItem
	for _, t := range b.Transactions {
		for _, item := range t.signedItems() {
			if !item.signed.IsEmpty() {
				items = append(items, item)
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, _ = item.signed.Signer(item.tag)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(items), nil
}
