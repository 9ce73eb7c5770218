// Command upack packages batches of digital objects for preservation:
// metadata records, identifier registration, fixity manifests, BagIt
// packaging, tar archives, and transfer ledgers.
package main
