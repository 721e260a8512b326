// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package preset

// defaultPresetsYAML contains the built-in preset definitions.
const defaultPresetsYAML = `
presets:
  hardened:
    description: "Strict defaults for running untrusted binaries"

    caps_drop_all: true
    seccomp: true
    shell: none

    switches:
      - nonewprivs
      - noroot
      - nogroups
      - private-tmp
      - private-dev
      - disable-mnt
      - nosound
      - notv
      - nou2f
      - novideo

  netless:
    description: "Hardened with all networking removed"
    inherit: hardened

    net: none
    # Unix domain sockets stay available for local IPC.
    protocols:
      - unix

  x11-isolated:
    description: "Hardened with the display isolated in a nested X server"
    inherit: hardened

    x11: xephyr
    env:
      # Shared-memory X extensions bypass the nested server.
      QT_X11_NO_MITSHM: "1"

  appimage:
    description: "AppImage launcher with a throwaway home directory"

    private: true
    seccomp: true
    switches:
      - appimage
      - private-tmp
`
