// Package gitctx reads commit data from a git repository by shelling out to
// git.
//
// [Repo] lists the commits a ref update introduces and returns their raw
// messages. It handles the all-zero revisions git passes to server-side hooks
// for ref creation and deletion. [GetRepoMeta] collects root, HEAD, and
// branch for reports.
package gitctx
