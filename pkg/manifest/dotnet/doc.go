// Package dotnet extracts NuGet dependency declarations.
//
// # Manifests
//
//   - *.csproj, *.fsproj, *.vbproj: PackageReference items
//   - Directory.Packages.props: central PackageVersion items
//   - packages.config: legacy package elements
//   - *.nuspec: metadata dependencies
//
// # Licenses
//
// Project files do not carry licenses. [NuGetCache] is the
// [manifest.LicenseSource] attached to every NuGet registration: the walker
// asks it for each (id, pinned version) after parsing, and it reads the
// nuspec files that NuGet restores into its global packages folder. Older packages only expose a licenseUrl, which is passed
// through unchanged (for example "https://aka.ms/netcoregaeula").
package dotnet
