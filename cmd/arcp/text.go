// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "github.com/yeetrun/argrouter/pkg/argrouter"

// text is the user-visible wording of the command tree in one language.
// Names stay in English so scripts work under any locale.
type text struct {
	intro, addendum            string
	help, version              string
	copy, move                 string
	force, verbose, jobs       string
	dereference, noDereference string
	dst, copySrc, moveSrc      string
	messages                   map[argrouter.ErrorKind]string
}

var texts = map[string]text{
	"en": {
		intro:         "Copies and moves files.",
		addendum:      "Defaults are read from arcp.toml in the current directory or above, or from the file named by $ARCP_CONFIG.",
		help:          "Display this help and exit",
		version:       "Print the version and exit",
		copy:          "Copy source files to destination",
		move:          "Move source file to destination",
		force:         "Force overwrite existing files",
		verbose:       "Log progress; repeat for debug output",
		jobs:          "Number of files to copy in parallel",
		dereference:   "Copy the files symbolic links point to",
		noDereference: "Copy symbolic links as links",
		dst:           "Destination file or directory",
		copySrc:       "Source file paths",
		moveSrc:       "Source file path",
	},
	"fr": {
		intro:         "Copie et déplace des fichiers.",
		addendum:      "Les valeurs par défaut sont lues dans arcp.toml, dans le répertoire courant ou au-dessus, ou dans le fichier désigné par $ARCP_CONFIG.",
		help:          "Afficher cette aide et quitter",
		version:       "Afficher la version et quitter",
		copy:          "Copier les fichiers source vers la destination",
		move:          "Déplacer le fichier source vers la destination",
		force:         "Écraser les fichiers existants",
		verbose:       "Journaliser la progression ; répéter pour le débogage",
		jobs:          "Nombre de fichiers copiés en parallèle",
		dereference:   "Copier les fichiers pointés par les liens symboliques",
		noDereference: "Copier les liens symboliques en tant que liens",
		dst:           "Fichier ou répertoire de destination",
		copySrc:       "Chemins des fichiers source",
		moveSrc:       "Chemin du fichier source",
		messages: map[argrouter.ErrorKind]string{
			argrouter.UnknownArgument:               "Argument inconnu",
			argrouter.UnknownArgumentWithSuggestion: "Argument inconnu, vouliez-vous dire ?",
			argrouter.UnhandledArguments:            "Arguments non traités",
			argrouter.AlreadySet:                    "Argument déjà défini",
			argrouter.UnexpectedValue:               "L'argument n'accepte pas de valeur",
			argrouter.MissingValue:                  "Valeur manquante",
			argrouter.InvalidValue:                  "Analyse impossible",
			argrouter.MinCountNotReached:            "Nombre minimal non atteint",
			argrouter.MaxCountExceeded:              "Nombre maximal dépassé",
			argrouter.MinValueNotReached:            "Valeur minimale non atteinte",
			argrouter.MaxValueExceeded:              "Valeur maximale dépassée",
			argrouter.DependentMissing:              "Argument dépendant manquant",
			argrouter.OneOfConflict:                 "Un seul argument d'un groupe exclusif peut être utilisé",
			argrouter.MissingRequired:               "Argument obligatoire manquant",
			argrouter.ModeRequiresArguments:         "Le mode nécessite des arguments",
			argrouter.NoArguments:                   "Aucun argument fourni",
		},
	},
}
