//go:build lfseq_opt_pagesize_large

package lfseq

const (
	defaultPageSize = 2048
	indexBits       = 16
)
