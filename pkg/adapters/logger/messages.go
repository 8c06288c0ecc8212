package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// File level messages (info)
		"Saved %s (%d bytes)":                    "%s を保存しました (%d バイト)",
		"Saved %s: %d frames, %d ms, %d bytes":   "%s を保存しました: %d フレーム, %d ms, %d バイト",
		"Loaded %s: %dx%d":                       "%s を読み込みました: %dx%d",
		"Loaded %s: %d frames":                   "%s を読み込みました: %d フレーム",
		"Encoding %d frames at %.2f fps":         "%d フレームを %.2f fps でエンコード中",
		"Extracted %d frames to %s":              "%d フレームを %s に書き出しました",
		"Using %s engine (%s)":                   "%s エンジンを使用します (%s)",

		// Frame codec
		"Encoded %dx%d frame: %d bytes":                      "%dx%d フレームをエンコード: %d バイト",
		"Decoded %dx%d frame into %s":                        "%dx%d フレームを %s にデコード",
		"Size pass %d: quality %.1f gives %d bytes (target %d)": "サイズ調整 %d 回目: 品質 %.1f で %d バイト (目標 %d)",

		// Animation
		"Frame at %d ms matches previous frame, merged":  "%d ms のフレームは直前と同一のため統合しました",
		"Assembled %d frames (%d merged), %d bytes":      "%d フレームを組み立てました (%d 統合), %d バイト",
		"Opened %dx%d animation with %d frames":          "%dx%d のアニメーションを開きました (%d フレーム)",
		"Decoding %d frames with %d workers":             "%d フレームを %d ワーカーでデコード中",

		// Stages
		"Encoding %d frames at %dx%d":                    "%d フレームを %dx%d でエンコード中",
		"Encoded %d frames into %d bytes":                "%d フレームを %d バイトにエンコードしました",
		"Decoding %d frames":                             "%d フレームをデコード中",
		"Resampled %d frames to %d at %.2f fps":          "%d フレームを %d フレームに変換しました (%.2f fps)",
		"Rendering %d frames into %dx%d strip":           "%d フレームを %dx%d の一覧画像に描画中",

		// Warnings
		"%s encode failed, falling back to %s: %v": "%s でのエンコードに失敗したため %s を使用します: %v",
		"%s decode failed, falling back to %s: %v": "%s でのデコードに失敗したため %s を使用します: %v",
		"Failed to save frame %d: %v":              "フレーム %d の保存に失敗しました: %v",

		// Errors
		"Failed to read %s: %v":             "%s の読み込みに失敗しました: %v",
		"Failed to encode %s: %v":           "%s のエンコードに失敗しました: %v",
		"Failed to decode %s: %v":           "%s のデコードに失敗しました: %v",
		"Failed to encode animation: %s":    "アニメーションのエンコードに失敗しました: %s",
		"Failed to decode animation: %s":    "アニメーションのデコードに失敗しました: %s",
		"Failed to write output: %s":        "出力の書き込みに失敗しました: %s",
	})
}
