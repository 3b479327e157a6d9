// Package javascript extracts npm and Yarn dependency declarations.
//
// # Manifests
//
//   - package.json: dependencies, devDependencies, peerDependencies and
//     optionalDependencies, in declaration order
//   - package-lock.json / npm-shrinkwrap.json: every installed package with
//     its pinned version and license (lockfile v1, v2 and v3)
//   - yarn.lock: one entry per resolution block (classic and berry formats)
//
// package.json carries no per-dependency license; the lockfile does, since
// npm copies the license field of each installed package into it. For
// entries still without one, [NodeModules] reads the license field of the
// package installed next to the manifest.
package javascript
